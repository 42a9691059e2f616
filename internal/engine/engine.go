package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/scrollsplit/internal/config"
	"github.com/ivlev/scrollsplit/internal/output"
	"github.com/ivlev/scrollsplit/internal/report"
	"github.com/ivlev/scrollsplit/internal/segment"
	"github.com/ivlev/scrollsplit/internal/source"
	"github.com/ivlev/scrollsplit/internal/system"
)

type SplitProject struct {
	Config *config.Config
	Source source.Source
	Writer *output.Writer
	Log    logrus.FieldLogger
}

func NewSplitProject(cfg *config.Config, src source.Source, w *output.Writer, log logrus.FieldLogger) *SplitProject {
	return &SplitProject{
		Config: cfg,
		Source: src,
		Writer: w,
		Log:    log,
	}
}

// Run loads the image, plans the cuts and writes the pages. Failures to read
// come back as *InputError, failures to write as *OutputError.
func (p *SplitProject) Run(ctx context.Context) (*report.Report, error) {
	startTime := time.Now()
	cfg := p.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	img, err := p.Source.Load(ctx)
	if err != nil {
		return nil, &InputError{Path: cfg.InputFile, Err: err}
	}
	if img.Bounds().Empty() {
		return nil, &InputError{Path: cfg.InputFile, Err: errors.New("image has no pixels")}
	}
	loadEnd := time.Now()

	p.Log.WithFields(logrus.Fields{
		"input":  cfg.InputFile,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	}).Info("image loaded")

	plan, err := p.plan(img)
	if err != nil {
		return nil, err
	}
	planEnd := time.Now()

	forced := 0
	for _, c := range plan.Cuts {
		if c.Kind == segment.CutForced {
			forced++
		}
	}
	p.Log.WithFields(logrus.Fields{
		"pages":  len(plan.Cuts),
		"forced": forced,
		"rows":   plan.Rows(),
	}).Info("cut plan ready")

	if cfg.PlanOutput != "" {
		if err := segment.WritePlan(plan, cfg.PlanOutput); err != nil {
			return nil, &OutputError{Path: cfg.PlanOutput, Err: err}
		}
		p.Log.WithField("path", cfg.PlanOutput).Info("cut plan saved")
	}

	status := report.StatusPlanned
	var paths []string
	if !cfg.DryRun {
		paths, err = p.Writer.Write(ctx, img, plan.Rows())
		if err != nil {
			return nil, &OutputError{Path: p.Writer.Dir, Err: err}
		}
		status = report.StatusProcessed
	}
	writeEnd := time.Now()

	rep := report.New(status, paths)
	if cfg.VerboseReport {
		rep.AddPages(plan)
	}

	if cfg.ShowStats {
		p.logStats(startTime, loadEnd, planEnd, writeEnd)
	}

	return rep, nil
}

func (p *SplitProject) plan(img *image.RGBA) (*segment.CutPlan, error) {
	cfg := p.Config
	height := img.Bounds().Dy()

	if cfg.PlanInput == "" {
		planner := segment.NewPlanner(cfg.ColorThreshold, cfg.MinHeight, cfg.MaxHeight)
		return planner.Plan(img), nil
	}

	plan, err := segment.ReadPlan(cfg.PlanInput)
	if err != nil {
		return nil, &InputError{Path: cfg.PlanInput, Err: err}
	}
	if err := plan.Check(img.Bounds().Dx(), height); err != nil {
		return nil, &InputError{Path: cfg.PlanInput, Err: fmt.Errorf("plan does not fit image: %w", err)}
	}
	p.Log.WithField("path", cfg.PlanInput).Info("using saved cut plan")
	return plan, nil
}

func (p *SplitProject) logStats(start, loadEnd, planEnd, writeEnd time.Time) {
	fields := logrus.Fields{
		"total_s": time.Since(start).Seconds(),
		"load_s":  loadEnd.Sub(start).Seconds(),
		"plan_s":  planEnd.Sub(loadEnd).Seconds(),
		"write_s": writeEnd.Sub(planEnd).Seconds(),
	}

	usage, err := system.CurrentUsage()
	if err != nil {
		p.Log.WithError(err).Warn("memory stats unavailable")
	} else {
		fields["rss_mb"] = usage.ProcessRSS / (1 << 20)
		fields["host_used_pct"] = usage.HostUsedPercent
	}

	p.Log.WithFields(fields).Info("performance report")
}
