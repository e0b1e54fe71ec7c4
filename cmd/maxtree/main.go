package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"maxtree/internal/logging"
	"maxtree/pkg/config"
	"maxtree/pkg/imageio"
	"maxtree/pkg/neighborhood"
	"maxtree/pkg/tree"
)

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", "", "Path to the input PGM image (P5, 8-bit)")
	outputPath := flag.String("output", "output.pgm", "Path to write the reconstructed PGM image")
	configPath := flag.String("config", "", "Path to a YAML config file (defaults applied if omitted)")
	connectivity := flag.String("connectivity", "", "Neighborhood: n4, n8, n6, n18, n26 (overrides config)")
	delta := flag.Int64("delta", -1, "MSER level-gap delta (overrides config)")
	radius := flag.Int("radius", -1, "Neighborhood-ring radius for the Otsu attribute (overrides config)")
	reconstruction := flag.String("reconstruction", "", "Reconstruction rule: min, max, direct (overrides config)")
	areaMin := flag.Int64("area-min", -1, "Minimum area kept active by filtering (overrides config)")
	areaMax := flag.Int64("area-max", -2, "Maximum area kept active by filtering, -1 means +Inf (overrides config)")
	verbose := flag.Bool("verbose", false, "Force verbose logging regardless of config")
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	// Config loading can fail before we know the configured verbosity, so a
	// bootstrap logger at the default level carries that one diagnostic;
	// every later failure goes through the fully-configured logger below.
	bootstrap := logging.NewConsole(zerolog.InfoLevel)

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			bootstrap.Error("main", err, map[string]interface{}{"configPath": *configPath})
			os.Exit(1)
		}
		cfg = loaded
	}
	applyOverrides(cfg, *connectivity, *delta, *radius, *reconstruction, *areaMin, *areaMax, *verbose)

	level := zerolog.InfoLevel
	if cfg.Output.Verbose {
		level = zerolog.DebugLevel
	}
	logger := logging.NewConsole(level)

	fmt.Println("================================")
	fmt.Println("COMPONENT-TREE (MAX-TREE) CONSTRUCTION AND ATTRIBUTE ENGINE")
	fmt.Println("================================")

	img, ok := imageio.LoadPGM8(*inputPath)
	if !ok {
		logger.Error("main", fmt.Errorf("failed to read input image: %s", *inputPath), map[string]interface{}{
			"path": *inputPath,
		})
		os.Exit(1)
	}
	logger.Info("main", "loaded input image", map[string]interface{}{
		"path":  *inputPath,
		"width": img.Width(), "height": img.Height(),
	})

	nb := neighborhoodFor(cfg.Connectivity)
	sel := tree.AttributeSet(cfg.AttributeSetMask())
	params := tree.AttributeParams{Delta: cfg.MSER.Delta, Radius: cfg.NeighborhoodRing.Radius}

	logger.Info("main", "building component tree", map[string]interface{}{
		"connectivity": cfg.Connectivity,
	})
	start := time.Now()
	t := tree.NewWithAttributes(img, nb, sel, params)
	logger.Info("main", "tree built", map[string]interface{}{
		"elapsedSeconds": time.Since(start).Seconds(),
	})

	areaMax2 := cfg.Filter.AreaMax
	if areaMax2 < 0 {
		areaMax2 = 1<<63 - 1
	}
	if cfg.Filter.AreaMin > 0 || cfg.Filter.AreaMax >= 0 {
		logger.Info("main", "applying area filter", map[string]interface{}{
			"areaMin": cfg.Filter.AreaMin, "areaMax": cfg.Filter.AreaMax,
		})
		t.AreaFiltering(cfg.Filter.AreaMin, areaMax2)
	}

	rule, ok := tree.ParseReconstructionRule(cfg.Reconstruction)
	if !ok {
		rule = tree.RuleDirect
	}
	logger.Info("main", "reconstructing", map[string]interface{}{"rule": rule.String()})
	result := t.Reconstruct(rule)

	if !imageio.SavePGM8(*outputPath, result) {
		logger.Error("main", fmt.Errorf("failed to write output image: %s", *outputPath), map[string]interface{}{
			"path": *outputPath,
		})
		os.Exit(1)
	}
	fmt.Printf("\nReconstruction written to: %s\n", *outputPath)
}

func applyOverrides(cfg *config.Config, connectivity string, delta int64, radius int, reconstruction string, areaMin, areaMax int64, verbose bool) {
	if connectivity != "" {
		cfg.Connectivity = connectivity
	}
	if delta >= 0 {
		cfg.MSER.Delta = delta
	}
	if radius >= 0 {
		cfg.NeighborhoodRing.Radius = radius
	}
	if reconstruction != "" {
		cfg.Reconstruction = reconstruction
	}
	if areaMin >= 0 {
		cfg.Filter.AreaMin = areaMin
	}
	if areaMax != -2 {
		cfg.Filter.AreaMax = areaMax
	}
	if verbose {
		cfg.Output.Verbose = true
	}
}

func neighborhoodFor(name string) *neighborhood.Neighborhood {
	switch name {
	case "n4":
		return neighborhood.Make2DN4()
	case "n6":
		return neighborhood.Make3DN6()
	case "n18":
		return neighborhood.Make3DN18()
	case "n26":
		return neighborhood.Make3DN26()
	default:
		return neighborhood.Make2DN8()
	}
}
