// meshtool is a CLI utility for inspecting and flattening mesh files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/Faultbox/meshkit/internal/config"
	"github.com/Faultbox/meshkit/internal/logger"
	"github.com/Faultbox/meshkit/pkg/formats"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches a command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command := args[0]
	args = args[1:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args, stdout)
	case "verify":
		err = cmdVerify(args, stdout)
	case "dump":
		err = cmdDump(args, stdout)
	case "flatten":
		err = cmdFlatten(args, stdout)
	case "formats":
		cmdFormats(stdout)
	case "help", "-h", "--help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `meshtool - mesh inspection and flattening utility

Usage:
  meshtool <command> [options] <file>

Commands:
  info <file>                  Show attribute counts and bounds
  verify <file>                Report every out-of-range index
  dump <file>                  Print the mesh in text form
  flatten [-o out] <file>      Write single-index GPU buffers
  formats                      List supported formats

Common options:
  -config <path>   Config file (mesh and logging sections apply)
  -format <name>   Force a loader instead of using the file extension
  -trace           Log loader steps to stderr

Examples:
  meshtool info model.obj
  meshtool flatten -dedupe -o model.bin model.stl
  meshtool dump -format obj model.txt`)
}

// commonFlags are shared by every command that loads a mesh.
type commonFlags struct {
	configPath string
	format     string
	trace      bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "Path to config file")
	fs.StringVar(&c.format, "format", "", "Force mesh format")
	fs.BoolVar(&c.trace, "trace", false, "Trace loader steps")
}

// load reads the config, sets up logging and loads the mesh at path.
func (c *commonFlags) load(path string) (*config.Config, *mesh.Mesh, error) {
	cfg, err := config.LoadFrom(c.configPath)
	if err != nil {
		return nil, nil, err
	}
	if c.format != "" {
		cfg.Mesh.Format = c.format
	}
	if c.trace {
		cfg.Logging.Level = "debug"
		cfg.Logging.TraceLoader = true
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, nil, err
	}

	var opts formats.Options
	if cfg.Logging.TraceLoader {
		opts.Logger = logger.Named("loader")
	}

	m, err := formats.LoadFile(path, cfg.Mesh.Format, opts)
	return cfg, m, err
}

func parse(name string, fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("usage: meshtool %s [options] <file>", name)
	}
	return fs.Arg(0), nil
}

func cmdInfo(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	path, err := parse("info", fs, args)
	if err != nil {
		return err
	}

	_, m, err := common.load(path)
	if err != nil {
		return err
	}

	flat := m.Flatten()
	welded := m.FlattenWith(mesh.FlattenOptions{Deduplicate: true})

	fmt.Fprintf(out, "File:       %s\n", path)
	fmt.Fprintf(out, "Positions:  %d\n", m.PositionCount())
	fmt.Fprintf(out, "Normals:    %d\n", m.NormalCount())
	fmt.Fprintf(out, "TexCoords:  %d\n", m.TexCoordCount())
	fmt.Fprintf(out, "Triangles:  %d\n", m.TriangleCount())
	fmt.Fprintf(out, "Vertices:   %d (%d deduplicated)\n", flat.Len(), welded.Len())

	if lo, hi, ok := m.Bounds(); ok {
		w, l, h := m.Dimensions()
		fmt.Fprintf(out, "Bounds:     %v - %v\n", lo, hi)
		fmt.Fprintf(out, "Dimensions: %g x %g x %g\n", w, l, h)
		fmt.Fprintf(out, "Center:     %v\n", m.Center())
	}
	return nil
}

func cmdVerify(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	path, err := parse("verify", fs, args)
	if err != nil {
		return err
	}

	_, _, err = common.load(path)
	if err == nil {
		fmt.Fprintf(out, "%s: ok\n", path)
		return nil
	}
	if !errors.Is(err, mesh.ErrStructural) {
		return err
	}

	errs := structuralErrors(err)
	for _, e := range errs {
		fmt.Fprintf(out, "%s: %v\n", path, e)
	}
	return fmt.Errorf("%d structural errors", len(errs))
}

// structuralErrors finds the combined error inside err's wrap chain and
// splits it into its parts.
func structuralErrors(err error) []error {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if errs := multierr.Errors(e); len(errs) > 1 {
			return errs
		}
	}
	return []error{err}
}

func cmdDump(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	path, err := parse("dump", fs, args)
	if err != nil {
		return err
	}

	_, m, err := common.load(path)
	if err != nil {
		return err
	}
	fmt.Fprint(out, m.String())
	return nil
}

func cmdFlatten(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("flatten", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	output := fs.String("o", "", "Output file (default: input with .bin extension)")
	dedupe := fs.Bool("dedupe", false, "Merge corners sharing an index triple")
	noFlipV := fs.Bool("no-flip-v", false, "Keep texture V as stored in the file")
	path, err := parse("flatten", fs, args)
	if err != nil {
		return err
	}

	cfg, m, err := common.load(path)
	if err != nil {
		return err
	}

	opts := mesh.FlattenOptions{
		Deduplicate: cfg.Mesh.Deduplicate || *dedupe,
		FlipV:       cfg.Mesh.FlipV && !*noFlipV,
	}
	b := m.FlattenWith(opts)

	dst := *output
	if dst == "" {
		dst = strings.TrimSuffix(path, filepath.Ext(path)) + ".bin"
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := formats.WriteBuffers(f, b); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %s: %d vertices, %d triangles\n", dst, b.Len(), b.TriangleCount())
	return nil
}

func cmdFormats(out io.Writer) {
	for _, name := range formats.Names() {
		fmt.Fprintln(out, name)
	}
}
