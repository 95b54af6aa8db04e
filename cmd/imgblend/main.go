// Command imgblend composites a foreground image onto a background image.
//
//	imgblend -bg photo.jpg -fg logo.png -roi bright,120,40 -out out.jpg
//
// Flags that are not given fall back to the configuration file, then to the
// built-in defaults.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/imgblend"
	"github.com/gogpu/imgblend/internal/config"
)

func main() {
	var (
		bgPath   = flag.String("bg", "", "background image file (required)")
		fgPath   = flag.String("fg", "", "foreground image file (required)")
		maskPath = flag.String("mask", "", "grayscale mask image file")
		output   = flag.String("out", "", "output file (default: out.<format>)")
		format   = flag.String("format", "", "output format: jpg, png, gif, tif or bmp")
		quality  = flag.Int("quality", 0, "encoder quality for lossy formats, 1-100")
		alpha    = flag.Float64("alpha", 0, "foreground weight when no mask or alpha channel is present")
		roi      = flag.String("roi", "", `placement: "x,y", "x,y,w,h" or "left|right|bleft|bright|center[,w,h]"`)
		fit      = flag.Bool("fit", false, "reset placements that overflow the background to zero")
		cfgPath  = flag.String("config", "imgblend.yaml", "configuration file")
		dumpCfg  = flag.Bool("dumpcfg", false, "print the effective configuration and exit")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["format"] {
		cfg.Defaults.Format = *format
	}
	if set["quality"] {
		cfg.Defaults.Quality = *quality
	}
	if set["alpha"] {
		cfg.Defaults.Alpha = *alpha
	}
	if set["mask"] {
		cfg.Blend.Mask = *maskPath
	}
	if set["roi"] {
		cfg.Blend.Roi = *roi
	}
	if set["fit"] {
		cfg.Blend.Fit = *fit
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	if *dumpCfg {
		if err := cfg.Dump(os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	level, _ := cfg.SlogLevel()
	imgblend.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *bgPath == "" || *fgPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	out := *output
	if out == "" {
		out = "out." + strings.TrimPrefix(cfg.Defaults.Format, ".")
	}

	if err := run(cfg, *bgPath, *fgPath, out); err != nil {
		log.Fatalf("Failed to composite: %v", err)
	}
	log.Printf("Composite saved to %s\n", out)
}

func run(cfg *config.Config, bgPath, fgPath, out string) error {
	region, anchor, err := imgblend.ParsePlacement(cfg.Blend.Roi)
	if err != nil {
		return err
	}

	bg, err := os.ReadFile(bgPath)
	if err != nil {
		return err
	}
	fg, err := os.ReadFile(fgPath)
	if err != nil {
		return err
	}
	var mask []byte
	if cfg.Blend.Mask != "" {
		if mask, err = os.ReadFile(cfg.Blend.Mask); err != nil {
			return err
		}
	}

	c := imgblend.New(
		imgblend.WithFitRegion(cfg.Blend.Fit),
		imgblend.WithLenientMask(cfg.Blend.LenientMask),
	)
	p := imgblend.Params{
		Quality: cfg.Defaults.Quality,
		Format:  cfg.Defaults.Format,
		Alpha:   cfg.Defaults.Alpha,
		Region:  region,
		Anchor:  anchor,
	}

	data, err := c.Composite(bg, fg, mask, p)
	if err != nil {
		return fmt.Errorf("%s over %s: %w", filepath.Base(fgPath), filepath.Base(bgPath), err)
	}
	return os.WriteFile(out, data, 0o644)
}
