package segment

import (
	"fmt"
	"image"
)

// DefaultStep is the distance in rows between two sampled candidate rows.
// Solid rows that fall between samples are not seen.
const DefaultStep = 40

// CutKind explains why a page ended at a given row.
type CutKind string

const (
	CutGutter CutKind = "gutter" // solid row found
	CutForced CutKind = "forced" // max height reached without a solid row
	CutEnd    CutKind = "end"    // bottom of the image
)

// Cut is a single page boundary. Row is exclusive for the page above it
// and inclusive for the page below it.
type Cut struct {
	Row  int     `yaml:"row"`
	Kind CutKind `yaml:"kind"`
}

// CutPlan is the ordered list of page boundaries for one image.
// The last cut is always the image height.
type CutPlan struct {
	Version string `yaml:"version"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Cuts    []Cut  `yaml:"cuts"`
}

// Rows returns the boundary rows in order.
func (p *CutPlan) Rows() []int {
	rows := make([]int, len(p.Cuts))
	for i, c := range p.Cuts {
		rows[i] = c.Row
	}
	return rows
}

// Bands returns the [top, bottom) row range of every page.
func (p *CutPlan) Bands() [][2]int {
	bands := make([][2]int, len(p.Cuts))
	top := 0
	for i, c := range p.Cuts {
		bands[i] = [2]int{top, c.Row}
		top = c.Row
	}
	return bands
}

// Check verifies that the plan can slice an image of the given size:
// boundaries must be strictly increasing, positive and end at height.
// A plan that records its width must match the image width.
func (p *CutPlan) Check(width, height int) error {
	if p.Width != 0 && p.Width != width {
		return fmt.Errorf("plan is for width %d, image width is %d", p.Width, width)
	}
	if len(p.Cuts) == 0 {
		return fmt.Errorf("plan has no cuts")
	}
	prev := 0
	for i, c := range p.Cuts {
		if c.Row <= prev {
			return fmt.Errorf("cut %d at row %d is not below row %d", i, c.Row, prev)
		}
		prev = c.Row
	}
	if prev != height {
		return fmt.Errorf("plan ends at row %d, image height is %d", prev, height)
	}
	return nil
}

// Planner finds page boundaries by sampling rows top to bottom.
type Planner struct {
	Threshold uint8
	MinHeight int
	MaxHeight int
	Step      int
}

// NewPlanner creates a planner with the default sampling step.
// Callers are expected to have checked 0 < minHeight <= maxHeight;
// Plan treats a minHeight below 1 as 1.
func NewPlanner(threshold uint8, minHeight, maxHeight int) *Planner {
	return &Planner{
		Threshold: threshold,
		MinHeight: minHeight,
		MaxHeight: maxHeight,
		Step:      DefaultStep,
	}
}

// Plan walks the image and returns the cut plan.
//
// Scanning starts minHeight rows below the last boundary. At each sampled
// row: a solid row becomes a gutter cut; otherwise, if one more step would
// grow the page past maxHeight, the row becomes a forced cut; otherwise the
// cursor moves down by Step. After any cut the cursor skips minHeight rows.
// The image height is always appended as the final boundary, so the last
// page is not limited by maxHeight.
func (p *Planner) Plan(img *image.RGBA) *CutPlan {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	step := p.Step
	if step <= 0 {
		step = DefaultStep
	}
	minHeight := p.MinHeight
	if minHeight < 1 {
		minHeight = 1
	}

	plan := &CutPlan{Version: "1.0", Width: width, Height: height}

	x := minHeight
	current := minHeight
	for x < height {
		switch {
		case IsSolidRow(img, x, width, p.Threshold):
			plan.Cuts = append(plan.Cuts, Cut{Row: x, Kind: CutGutter})
		case current+step > p.MaxHeight:
			plan.Cuts = append(plan.Cuts, Cut{Row: x, Kind: CutForced})
		default:
			x += step
			current += step
			continue
		}
		x += minHeight
		current = minHeight
	}

	plan.Cuts = append(plan.Cuts, Cut{Row: height, Kind: CutEnd})
	return plan
}
