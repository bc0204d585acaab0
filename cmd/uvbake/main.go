// uvbake is a headless CLI that composes artwork onto a garment's UV layout
// and writes the resulting texture.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/uvstudio/internal/assets"
	"github.com/Faultbox/uvstudio/internal/config"
	"github.com/Faultbox/uvstudio/internal/export"
	"github.com/Faultbox/uvstudio/internal/logger"
	"github.com/Faultbox/uvstudio/internal/studio"
	"github.com/Faultbox/uvstudio/internal/uvmap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "bake":
		err = cmdBake(args)
	case "info":
		err = cmdInfo(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`uvbake - garment texture baker

Usage:
  uvbake <command> [options]

Commands:
  bake   Place artwork on a component and write the texture as PNG
  info   List a model's components and their UV statistics

Examples:
  uvbake info -model models/shirt.obj
  uvbake bake -model models/shirt.obj -art logo.png -target bodyFMIX -out shirt.png
  uvbake bake -model models/shirt.obj -garment forest -bg "#f4f4f4" -art a.png -art b.png`)
}

// artFlag collects repeated -art values.
type artFlag []string

func (a *artFlag) String() string { return fmt.Sprint(*a) }

func (a *artFlag) Set(v string) error {
	*a = append(*a, v)
	return nil
}

func loadConfig(model, target string, size int, debug bool) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if model != "" {
		cfg.Model.Path = model
	}
	if target != "" {
		cfg.Surface.EditTarget = target
	}
	if size > 0 {
		cfg.Surface.Size = size
	}
	cfg.Model.Intro = false
	if debug {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, nil
}

func newSession(cfg *config.Config) (*studio.Session, error) {
	am := assets.NewManager()
	for _, root := range cfg.Assets.Roots {
		if err := am.AddRoot(root); err != nil {
			logger.Debug("skipping asset root", zap.String("root", root), zap.Error(err))
		}
	}
	return studio.NewSession(cfg, am)
}

func cmdBake(args []string) error {
	fs := flag.NewFlagSet("bake", flag.ExitOnError)
	var art artFlag
	fs.Var(&art, "art", "Artwork image (repeatable)")
	model := fs.String("model", "", "Garment model (.obj)")
	target := fs.String("target", "", "Component the artwork is placed on")
	garment := fs.String("garment", "", "Palette entry whose base image is laid down first")
	bg := fs.String("bg", "", "Background color (#rrggbb)")
	out := fs.String("out", "", "Output PNG (default: timestamped file in the export dir)")
	size := fs.Int("size", 0, "Surface size (power of two)")
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.Parse(args)

	cfg, err := loadConfig(*model, *target, *size, *debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	if _, err := s.LoadModel(cfg.Model.Path); err != nil {
		return err
	}

	if *garment != "" {
		if err := s.SelectGarment(*garment); err != nil {
			return err
		}
	}
	if *bg != "" {
		if err := s.SetBackground(*bg); err != nil {
			return err
		}
	}
	for _, path := range art {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%w: %w", assets.ErrAssetLoad, err)
		}
		if _, err := s.ImportArtwork(data, s.EditTarget()); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	// Settle every transition so the output carries the final colors.
	step := cfg.Transitions.BackgroundStep
	for s.Transitions().Pending() {
		if _, err := s.Frame(step, nil); err != nil {
			return err
		}
	}
	s.Surface().Discard()

	if *out == "" {
		path, err := export.New(cfg.Export.Dir, "uvbake").Surface(s.Surface())
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	}
	return writeFile(*out, s)
}

func writeFile(path string, s *studio.Session) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteSurface(f, s.Surface()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	model := fs.String("model", "", "Garment model (.obj)")
	fs.Parse(args)

	cfg, err := loadConfig(*model, "", 0, false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	sc, err := s.LoadModel(cfg.Model.Path)
	if err != nil {
		return err
	}

	fmt.Printf("Model: %s\n", cfg.Model.Path)
	fmt.Printf("%-20s %10s %8s %8s %8s\n", "Component", "Triangles", "AvgU", "AvgV", "Extent")
	for _, m := range sc.Meshes() {
		g := m.Geometry()
		st, err := uvmap.Analyze(g)
		note := ""
		if errors.Is(err, uvmap.ErrNoUVChannel) {
			note = "  (no UVs)"
		}
		fmt.Printf("%-20s %10d %8.3f %8.3f %8.3f%s\n", m.Name, g.TriangleCount(), st.AverageU, st.AverageV, st.Extent, note)
	}
	return nil
}
