package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ivlev/scrollsplit/internal/segment"
)

func TestReportWrite(t *testing.T) {
	var buf bytes.Buffer
	r := New(StatusProcessed, []string{"out/000.jpg", "out/001.jpg"})
	if err := r.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	want := `{"status":"processed","result":["out/000.jpg","out/001.jpg"]}`
	if got := strings.TrimSpace(buf.String()); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestReportEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	if err := New(StatusPlanned, nil).Write(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"result":[]`) {
		t.Errorf("Expected empty result array, got %s", buf.String())
	}
}

func TestReportPages(t *testing.T) {
	plan := &segment.CutPlan{Cuts: []segment.Cut{
		{Row: 640, Kind: segment.CutGutter},
		{Row: 7640, Kind: segment.CutForced},
		{Row: 8000, Kind: segment.CutEnd},
	}}

	r := New(StatusProcessed, []string{"a", "b", "c"})
	r.AddPages(plan)

	if len(r.Pages) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(r.Pages))
	}
	second := r.Pages[1]
	if second.Top != 640 || second.Bottom != 7640 || second.Height != 7000 || second.Cut != "forced" || second.Path != "b" {
		t.Errorf("unexpected page: %+v", second)
	}

	var buf bytes.Buffer
	if err := r.Write(&buf); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if _, ok := decoded["pages"]; !ok {
		t.Error("Expected pages key in report")
	}
}
