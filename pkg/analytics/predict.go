package analytics

import "github.com/oncentra/registry/pkg/common/models"

// minHistoryPoints is the smallest history a trend fit will accept.
const minHistoryPoints = 3

// FitTrend fits a least-squares line through yearly case counts and returns
// slope, intercept, and the coefficient of determination.
func FitTrend(history []models.ForecastPoint) (slope, intercept, r2 float64) {
	n := float64(len(history))
	if n == 0 {
		return 0, 0, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for _, p := range history {
		x := float64(p.Year)
		sumX += x
		sumY += p.Cases
		sumXY += x * p.Cases
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssTot, ssRes float64
	for _, p := range history {
		predicted := slope*float64(p.Year) + intercept
		ssTot += (p.Cases - meanY) * (p.Cases - meanY)
		ssRes += (p.Cases - predicted) * (p.Cases - predicted)
	}
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	return slope, intercept, r2
}

// ForecastIncidence extrapolates the fitted trend for yearsAhead years past
// the last observed year. Projections never go below zero.
func ForecastIncidence(history []models.ForecastPoint, yearsAhead int) []models.ForecastPoint {
	if len(history) < minHistoryPoints || yearsAhead <= 0 {
		return nil
	}
	slope, intercept, _ := FitTrend(history)
	lastYear := history[len(history)-1].Year

	forecast := make([]models.ForecastPoint, 0, yearsAhead)
	for i := 1; i <= yearsAhead; i++ {
		year := lastYear + i
		cases := slope*float64(year) + intercept
		if cases < 0 {
			cases = 0
		}
		forecast = append(forecast, models.ForecastPoint{Year: year, Cases: cases})
	}
	return forecast
}
