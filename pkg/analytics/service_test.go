package analytics

import (
	"testing"
	"time"

	"github.com/oncentra/registry/pkg/common/apperr"
	"github.com/oncentra/registry/pkg/common/models"
)

func TestYearFromRange(t *testing.T) {
	svc := &Service{nowFunc: func() time.Time {
		return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	}}

	tests := []struct {
		timeRange string
		want      int
		wantErr   bool
	}{
		{"1y", 2026, false},
		{"5y", 2022, false},
		{"10y", 2017, false},
		{"all", 0, false},
		{"", 0, true},
		{"y", 0, true},
		{"5x", 0, true},
		{"-1y", 0, true},
	}

	for _, tt := range tests {
		got, err := svc.yearFromRange(tt.timeRange)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.timeRange)
			} else if apperr.KindOf(err) != apperr.KindBadRequest {
				t.Errorf("%q: got kind %v, want bad request", tt.timeRange, apperr.KindOf(err))
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.timeRange, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: got %d, want %d", tt.timeRange, got, tt.want)
		}
	}
}

func TestNormalizePage(t *testing.T) {
	if page, size := normalizePage(0, 0); page != 1 || size != defaultPageSize {
		t.Errorf("defaults: got page %d size %d", page, size)
	}
	if page, size := normalizePage(3, 25); page != 3 || size != 25 {
		t.Errorf("explicit: got page %d size %d", page, size)
	}
	if _, size := normalizePage(1, maxPageSize+1); size != defaultPageSize {
		t.Errorf("oversized page size not clamped, got %d", size)
	}
}

func TestPageSliceAndTotalPages(t *testing.T) {
	rows := make([]models.GeographicRow, 7)
	for i := range rows {
		rows[i].CaseCount = i
	}

	if got := pageSlice(rows, 1, 3); len(got) != 3 || got[0].CaseCount != 0 {
		t.Errorf("page 1: got %v", got)
	}
	if got := pageSlice(rows, 3, 3); len(got) != 1 || got[0].CaseCount != 6 {
		t.Errorf("page 3: got %v", got)
	}
	if got := pageSlice(rows, 4, 3); len(got) != 0 {
		t.Errorf("page past the end should be empty, got %v", got)
	}

	if got := totalPages(7, 3); got != 3 {
		t.Errorf("totalPages(7,3): got %d, want 3", got)
	}
	if got := totalPages(6, 3); got != 2 {
		t.Errorf("totalPages(6,3): got %d, want 2", got)
	}
	if got := totalPages(0, 3); got != 0 {
		t.Errorf("totalPages(0,3): got %d, want 0", got)
	}
}

func TestAggregateParamsOmitsZeroYears(t *testing.T) {
	params := aggregateParams(models.AggregateQuery{CancerType: "breast"})
	if _, ok := params["year_from"]; ok {
		t.Error("year_from should be absent when unset")
	}

	params = aggregateParams(models.AggregateQuery{YearFrom: 2020, YearTo: 2024})
	if params["year_from"] != "2020" || params["year_to"] != "2024" {
		t.Errorf("unexpected params %v", params)
	}
}
