package renderer

const vertexShader = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vTexCoord;

void main() {
    vec4 world = uModel * vec4(aPosition, 1.0);
    vWorldPos = world.xyz;
    vNormal = mat3(uModel) * aNormal;
    vTexCoord = aTexCoord;
    gl_Position = uProjection * uView * world;
}
`

// A headlight from the eye keeps the visible side lit, and an optional key
// light adds shape. Back faces are lit through their flipped normal.
const fragmentShader = `
#version 410 core

in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vTexCoord;

uniform vec3 uEye;
uniform bool uChecker;
uniform bool uTextured;
uniform sampler2D uTexture;
uniform vec3 uLightDir;

out vec4 FragColor;

void main() {
    vec3 n = normalize(vNormal);
    vec3 toEye = normalize(uEye - vWorldPos);
    if (!gl_FrontFacing) {
        n = -n;
    }

    float diffuse = max(dot(n, toEye), 0.0);
    if (length(uLightDir) > 0.0) {
        diffuse = 0.6 * diffuse + 0.4 * max(dot(n, uLightDir), 0.0);
    }
    vec3 base = vec3(0.8, 0.8, 0.82);
    if (uChecker) {
        vec2 cell = floor(vTexCoord * 8.0);
        float check = mod(cell.x + cell.y, 2.0);
        base = mix(vec3(0.35, 0.4, 0.55), vec3(0.85, 0.85, 0.9), check);
    }
    if (uTextured) {
        base = texture(uTexture, vTexCoord).rgb;
    }

    FragColor = vec4(base * (0.25 + 0.75 * diffuse), 1.0);
}
`

const lineVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPosition;

uniform mat4 uMVP;

void main() {
    gl_Position = uMVP * vec4(aPosition, 1.0);
}
`

const lineFragmentShader = `
#version 410 core

uniform vec3 uColor;

out vec4 FragColor;

void main() {
    FragColor = vec4(uColor, 1.0);
}
`
