package analytics

import (
	"testing"

	"github.com/oncentra/registry/pkg/common/models"
)

func TestSuppressSmallCells(t *testing.T) {
	rows := []models.AggregateRow{
		{CancerType: "breast", CaseCount: 120},
		{CancerType: "sarcoma", CaseCount: 4},
		{CancerType: "melanoma", CaseCount: 5},
		{CancerType: "rare", CaseCount: 1},
	}

	kept, suppressed := SuppressSmallCells(rows, 5)
	if suppressed != 2 {
		t.Errorf("suppressed: got %d, want 2", suppressed)
	}
	if len(kept) != 2 {
		t.Fatalf("kept: got %d rows, want 2", len(kept))
	}
	// A count of exactly the threshold survives; one below does not.
	if kept[0].CancerType != "breast" || kept[1].CancerType != "melanoma" {
		t.Errorf("unexpected surviving rows %v", kept)
	}
}

func TestSuppressSmallCellsNoThreshold(t *testing.T) {
	rows := []models.AggregateRow{{CaseCount: 1}, {CaseCount: 2}}
	kept, suppressed := SuppressSmallCells(rows, 0)
	if suppressed != 0 || len(kept) != 2 {
		t.Errorf("threshold 0 should keep everything, got %d kept %d suppressed", len(kept), suppressed)
	}
}

func TestSuppressGeographicCells(t *testing.T) {
	rows := []models.GeographicRow{
		{Region: "north", CaseCount: 5},
		{Region: "south", CaseCount: 4},
		{Region: "east", CaseCount: 50},
	}

	kept, suppressed := SuppressGeographicCells(rows, 5)
	if suppressed != 1 {
		t.Errorf("suppressed: got %d, want 1", suppressed)
	}
	if len(kept) != 2 {
		t.Fatalf("kept: got %d rows, want 2", len(kept))
	}
	for _, row := range kept {
		if row.Region == "south" {
			t.Error("below-threshold region leaked through")
		}
	}
}
