package analytics

import "github.com/oncentra/registry/pkg/common/models"

// SuppressSmallCells drops aggregate rows whose case count falls below the
// privacy threshold. A cell with exactly the threshold count is kept.
// Returns the surviving rows and the number suppressed.
func SuppressSmallCells(rows []models.AggregateRow, threshold int) ([]models.AggregateRow, int) {
	if threshold <= 0 {
		return rows, 0
	}
	kept := make([]models.AggregateRow, 0, len(rows))
	suppressed := 0
	for _, row := range rows {
		if row.CaseCount < threshold {
			suppressed++
			continue
		}
		kept = append(kept, row)
	}
	return kept, suppressed
}

// SuppressGeographicCells applies the same threshold to geographic rows.
func SuppressGeographicCells(rows []models.GeographicRow, threshold int) ([]models.GeographicRow, int) {
	if threshold <= 0 {
		return rows, 0
	}
	kept := make([]models.GeographicRow, 0, len(rows))
	suppressed := 0
	for _, row := range rows {
		if row.CaseCount < threshold {
			suppressed++
			continue
		}
		kept = append(kept, row)
	}
	return kept, suppressed
}
