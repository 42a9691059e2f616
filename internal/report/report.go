package report

import (
	"encoding/json"
	"io"

	"github.com/ivlev/scrollsplit/internal/segment"
)

const (
	StatusProcessed = "processed"
	StatusPlanned   = "planned"
)

// Page describes one output band.
type Page struct {
	Index  int    `json:"index"`
	Top    int    `json:"top"`
	Bottom int    `json:"bottom"`
	Height int    `json:"height"`
	Cut    string `json:"cut"`
	Path   string `json:"path,omitempty"`
}

// Report is printed to stdout after a successful run.
type Report struct {
	Status string   `json:"status"`
	Result []string `json:"result"`
	Pages  []Page   `json:"pages,omitempty"`
}

func New(status string, paths []string) *Report {
	if paths == nil {
		paths = []string{}
	}
	return &Report{Status: status, Result: paths}
}

// AddPages attaches per-page details taken from the plan.
func (r *Report) AddPages(plan *segment.CutPlan) {
	r.Pages = make([]Page, 0, len(plan.Cuts))
	for i, band := range plan.Bands() {
		p := Page{
			Index:  i,
			Top:    band[0],
			Bottom: band[1],
			Height: band[1] - band[0],
			Cut:    string(plan.Cuts[i].Kind),
		}
		if i < len(r.Result) {
			p.Path = r.Result[i]
		}
		r.Pages = append(r.Pages, p)
	}
}

func (r *Report) Write(w io.Writer) error {
	return json.NewEncoder(w).Encode(r)
}
