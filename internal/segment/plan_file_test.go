package segment

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestPlanWriteRead(t *testing.T) {
	plan := &CutPlan{
		Version: "1.0",
		Width:   1200,
		Height:  9000,
		Cuts: []Cut{
			{Row: 640, Kind: CutGutter},
			{Row: 7640, Kind: CutForced},
			{Row: 9000, Kind: CutEnd},
		},
	}

	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := WritePlan(plan, path); err != nil {
		t.Fatalf("WritePlan failed: %v", err)
	}

	read, err := ReadPlan(path)
	if err != nil {
		t.Fatalf("ReadPlan failed: %v", err)
	}

	if !reflect.DeepEqual(read, plan) {
		t.Errorf("plan mismatch: expected %+v, got %+v", plan, read)
	}
}

func TestReadPlanMissingFile(t *testing.T) {
	if _, err := ReadPlan(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error, got nil")
	}
}
