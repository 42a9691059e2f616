package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/scrollsplit/internal/config"
	"github.com/ivlev/scrollsplit/internal/engine"
	"github.com/ivlev/scrollsplit/internal/output"
	"github.com/ivlev/scrollsplit/internal/source"
	"github.com/ivlev/scrollsplit/internal/system"
)

const (
	exitOK = iota
	exitFailure
	exitConfig
	exitInput
	exitOutput
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	def := config.Default()

	fs := flag.NewFlagSet("scrollsplit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPtr := fs.String("config", "", "YAML file with parameters; flags given explicitly take precedence")
	inputPtr := fs.String("input-file", "", "Image (png, jpg, gif, bmp, tiff, webp) or PDF to split (required)")
	outputPtr := fs.String("output-directory", "", "Directory for the pages (required unless -dry-run)")
	thresholdPtr := fs.Uint("color-threshold", uint(def.ColorThreshold), "Max per-channel deviation for a row to count as solid (0-255)")
	minPtr := fs.Int("min-height", def.MinHeight, "Minimum page height in rows")
	maxPtr := fs.Int("max-height", def.MaxHeight, "Maximum page height in rows (the last page may exceed it)")
	formatPtr := fs.String("format", def.Format, "Output format: jpg, png, bmp, tiff")
	qualityPtr := fs.Int("quality", def.Quality, "JPEG quality 1-100")
	workersPtr := fs.Int("workers", def.Workers, "Parallel page encoders")
	dpiPtr := fs.Int("dpi", def.DPI, "DPI for PDF input")
	pagePtr := fs.Int("pdf-page", def.PDFPage, "Zero-based PDF page to split")
	planInPtr := fs.String("plan-input", "", "Cut with a saved YAML plan instead of scanning")
	planOutPtr := fs.String("plan-output", "", "Save the cut plan as YAML")
	dryRunPtr := fs.Bool("dry-run", false, "Compute the plan without writing pages")
	verbosePtr := fs.Bool("verbose-report", false, "Include per-page details in the JSON report")
	statsPtr := fs.Bool("stats", false, "Log timings and memory usage")
	debugPtr := fs.Bool("debug", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitConfig
	}

	log := initLogger(*debugPtr, stderr)

	cfg := def
	if *configPtr != "" {
		var err error
		cfg, err = config.Load(*configPtr)
		if err != nil {
			log.WithError(err).Error("cannot load configuration")
			return exitConfig
		}
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["color-threshold"] {
		if *thresholdPtr > 255 {
			log.Errorf("color threshold must be within 0-255, got %d", *thresholdPtr)
			return exitConfig
		}
		cfg.ColorThreshold = uint8(*thresholdPtr)
	}
	if set["input-file"] {
		cfg.InputFile = *inputPtr
	}
	if set["output-directory"] {
		cfg.OutputDirectory = *outputPtr
	}
	if set["min-height"] {
		cfg.MinHeight = *minPtr
	}
	if set["max-height"] {
		cfg.MaxHeight = *maxPtr
	}
	if set["format"] {
		cfg.Format = *formatPtr
	}
	if set["quality"] {
		cfg.Quality = *qualityPtr
	}
	if set["workers"] {
		cfg.Workers = *workersPtr
	}
	if set["dpi"] {
		cfg.DPI = *dpiPtr
	}
	if set["pdf-page"] {
		cfg.PDFPage = *pagePtr
	}
	if set["plan-input"] {
		cfg.PlanInput = *planInPtr
	}
	if set["plan-output"] {
		cfg.PlanOutput = *planOutPtr
	}
	if set["dry-run"] {
		cfg.DryRun = *dryRunPtr
	}
	if set["verbose-report"] {
		cfg.VerboseReport = *verbosePtr
	}
	if set["stats"] {
		cfg.ShowStats = *statsPtr
	}
	if set["debug"] {
		cfg.Debug = *debugPtr
	}

	if cfg.Debug && !*debugPtr {
		log = initLogger(true, stderr)
	}

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Error("bad parameters")
		return exitConfig
	}

	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		log.WithError(err).Error("bad parameters")
		return exitConfig
	}

	log.WithFields(logrus.Fields{
		"input":     cfg.InputFile,
		"output":    cfg.OutputDirectory,
		"threshold": cfg.ColorThreshold,
		"min":       cfg.MinHeight,
		"max":       cfg.MaxHeight,
		"format":    format,
	}).Debug("configuration")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	system.InitResourceLimits(log)

	src, err := source.Open(cfg.InputFile, cfg.DPI, cfg.PDFPage)
	if err != nil {
		return fail(log, &engine.InputError{Path: cfg.InputFile, Err: err})
	}
	defer src.Close()

	w := output.NewWriter(cfg.OutputDirectory, format, cfg.Quality, cfg.Workers, log)
	project := engine.NewSplitProject(&cfg, src, w, log)

	rep, err := project.Run(ctx)
	if err != nil {
		return fail(log, err)
	}

	if err := rep.Write(stdout); err != nil {
		return fail(log, fmt.Errorf("write report: %w", err))
	}
	return exitOK
}

func fail(log logrus.FieldLogger, err error) int {
	log.WithError(err).Error("split failed")
	return exitCode(err)
}

func exitCode(err error) int {
	var inErr *engine.InputError
	var outErr *engine.OutputError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, config.ErrInvalid):
		return exitConfig
	case errors.As(err, &inErr):
		return exitInput
	case errors.As(err, &outErr):
		return exitOutput
	default:
		return exitFailure
	}
}

// initLogger writes to stderr; stdout carries only the JSON report
func initLogger(debugMode bool, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
