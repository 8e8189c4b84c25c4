// meshview displays a mesh file in an OpenGL window.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/config"
	"github.com/Faultbox/meshkit/internal/logger"
	"github.com/Faultbox/meshkit/internal/viewer"
	"github.com/Faultbox/meshkit/pkg/formats"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

func main() {
	config.ParseFlags()

	args := config.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshview [flags] <mesh file>")
		os.Exit(1)
	}
	path := args[0]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	var opts formats.Options
	if cfg.Logging.TraceLoader {
		opts.Logger = logger.Named("loader")
	}

	load := func() (*mesh.Mesh, error) {
		return formats.LoadFile(path, cfg.Mesh.Format, opts)
	}

	m, err := load()
	if err != nil {
		logger.Error("failed to load mesh", zap.String("path", path), zap.Error(err))
		os.Exit(1)
	}

	w, l, h := m.Dimensions()
	logger.Info("mesh loaded",
		zap.String("path", path),
		zap.Int("positions", m.PositionCount()),
		zap.Int("triangles", m.TriangleCount()),
		zap.Float32("width", w),
		zap.Float32("length", l),
		zap.Float32("height", h),
	)

	v, err := viewer.New(cfg, "meshview - "+filepath.Base(path), m)
	if err != nil {
		logger.Error("failed to start viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if cfg.Viewer.Watch {
		if err := v.Watch(path, load); err != nil {
			logger.Warn("file watching disabled", zap.Error(err))
		}
	}

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
}
