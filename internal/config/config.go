package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	InputFile       string `yaml:"input_file"`
	OutputDirectory string `yaml:"output_directory"`
	ColorThreshold  uint8  `yaml:"color_threshold"`
	MinHeight       int    `yaml:"min_height"`
	MaxHeight       int    `yaml:"max_height"`
	Format          string `yaml:"format"`
	Quality         int    `yaml:"quality"`
	Workers         int    `yaml:"workers"`
	DPI             int    `yaml:"dpi"`
	PDFPage         int    `yaml:"pdf_page"`
	PlanInput       string `yaml:"plan_input"`
	PlanOutput      string `yaml:"plan_output"`
	DryRun          bool   `yaml:"dry_run"`
	VerboseReport   bool   `yaml:"verbose_report"`
	ShowStats       bool   `yaml:"stats"`
	Debug           bool   `yaml:"debug"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		ColorThreshold: 2,
		MinHeight:      600,
		MaxHeight:      7000,
		Format:         "jpg",
		Quality:        90,
		Workers:        runtime.NumCPU(),
		DPI:            150,
	}
}

// Load reads a YAML file on top of Default. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	return cfg, nil
}

// Validate checks the parameters the planner and writer rely on.
func (c *Config) Validate() error {
	var problems []string

	if c.InputFile == "" {
		problems = append(problems, "input file is empty or missing")
	}
	if c.OutputDirectory == "" && !c.DryRun {
		problems = append(problems, "output directory is empty or missing")
	}
	if c.MinHeight <= 0 {
		problems = append(problems, fmt.Sprintf("min height must be positive, got %d", c.MinHeight))
	}
	if c.MaxHeight < c.MinHeight {
		problems = append(problems, fmt.Sprintf("max height %d is below min height %d", c.MaxHeight, c.MinHeight))
	}
	switch strings.ToLower(c.Format) {
	case "jpg", "jpeg", "png", "bmp", "tif", "tiff":
	default:
		problems = append(problems, fmt.Sprintf("unknown output format %q", c.Format))
	}
	if c.Quality < 1 || c.Quality > 100 {
		problems = append(problems, fmt.Sprintf("quality must be within 1-100, got %d", c.Quality))
	}
	if c.Workers < 1 {
		problems = append(problems, fmt.Sprintf("workers must be at least 1, got %d", c.Workers))
	}
	if c.DPI < 1 {
		problems = append(problems, fmt.Sprintf("dpi must be positive, got %d", c.DPI))
	}
	if c.PDFPage < 0 {
		problems = append(problems, fmt.Sprintf("pdf page must not be negative, got %d", c.PDFPage))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
