package analytics

import (
	"math"
	"testing"

	"github.com/oncentra/registry/pkg/common/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestFitTrendPerfectLine(t *testing.T) {
	history := []models.ForecastPoint{
		{Year: 2020, Cases: 100},
		{Year: 2021, Cases: 110},
		{Year: 2022, Cases: 120},
		{Year: 2023, Cases: 130},
	}

	slope, intercept, r2 := FitTrend(history)
	if !almostEqual(slope, 10) {
		t.Errorf("slope: got %f, want 10", slope)
	}
	if !almostEqual(slope*2024+intercept, 140) {
		t.Errorf("projection for 2024: got %f, want 140", slope*2024+intercept)
	}
	if !almostEqual(r2, 1) {
		t.Errorf("r2: got %f, want 1", r2)
	}
}

func TestFitTrendFlat(t *testing.T) {
	history := []models.ForecastPoint{
		{Year: 2020, Cases: 50},
		{Year: 2021, Cases: 50},
		{Year: 2022, Cases: 50},
	}
	slope, intercept, _ := FitTrend(history)
	if !almostEqual(slope, 0) {
		t.Errorf("slope: got %f, want 0", slope)
	}
	if !almostEqual(intercept, 50) {
		t.Errorf("intercept: got %f, want 50", intercept)
	}
}

func TestForecastIncidence(t *testing.T) {
	history := []models.ForecastPoint{
		{Year: 2020, Cases: 100},
		{Year: 2021, Cases: 110},
		{Year: 2022, Cases: 120},
	}

	forecast := ForecastIncidence(history, 3)
	if len(forecast) != 3 {
		t.Fatalf("got %d points, want 3", len(forecast))
	}
	if forecast[0].Year != 2023 || forecast[2].Year != 2025 {
		t.Errorf("unexpected forecast years %v", forecast)
	}
	if !almostEqual(forecast[0].Cases, 130) {
		t.Errorf("2023 projection: got %f, want 130", forecast[0].Cases)
	}
}

func TestForecastIncidenceClampsAtZero(t *testing.T) {
	history := []models.ForecastPoint{
		{Year: 2020, Cases: 20},
		{Year: 2021, Cases: 10},
		{Year: 2022, Cases: 0},
	}

	forecast := ForecastIncidence(history, 2)
	for _, p := range forecast {
		if p.Cases < 0 {
			t.Errorf("year %d projected below zero: %f", p.Year, p.Cases)
		}
	}
}

func TestForecastIncidenceRequiresHistory(t *testing.T) {
	short := []models.ForecastPoint{
		{Year: 2021, Cases: 10},
		{Year: 2022, Cases: 20},
	}
	if got := ForecastIncidence(short, 5); got != nil {
		t.Errorf("short history should yield nil, got %v", got)
	}
	if got := ForecastIncidence(nil, 5); got != nil {
		t.Errorf("empty history should yield nil, got %v", got)
	}
}
