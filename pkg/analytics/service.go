package analytics

import (
	"context"
	"strconv"
	"time"

	"github.com/oncentra/registry/pkg/cache"
	"github.com/oncentra/registry/pkg/common/apperr"
	"github.com/oncentra/registry/pkg/common/config"
	"github.com/oncentra/registry/pkg/common/models"
)

const (
	defaultPageSize    = 50
	maxPageSize        = 200
	defaultTimeRange   = "5y"
	defaultTopTypes    = 5
	defaultYearsAhead  = 5
	maxForecastHorizon = 20
)

type Service struct {
	repo      *Repository
	cache     *cache.Service
	threshold int

	nowFunc func() time.Time
}

func NewService(repo *Repository, cacheSvc *cache.Service) *Service {
	return &Service{
		repo:      repo,
		cache:     cacheSvc,
		threshold: config.Load().PrivacyThreshold,
		nowFunc:   time.Now,
	}
}

// ExecutiveDashboard assembles the summary view for a center, or the national
// view when centerID is empty. Served from cache when fresh.
func (s *Service) ExecutiveDashboard(ctx context.Context, centerID, timeRange string) (models.ExecutiveDashboard, error) {
	if timeRange == "" {
		timeRange = defaultTimeRange
	}

	var dashboard models.ExecutiveDashboard
	if s.cache.GetDashboardData(ctx, centerID, timeRange, &dashboard) {
		return dashboard, nil
	}

	yearFrom, err := s.yearFromRange(timeRange)
	if err != nil {
		return models.ExecutiveDashboard{}, err
	}

	cases, deaths, err := s.repo.Totals(ctx, centerID, yearFrom)
	if err != nil {
		return models.ExecutiveDashboard{}, err
	}
	topTypes, err := s.repo.TopCancerTypes(ctx, centerID, yearFrom, defaultTopTypes)
	if err != nil {
		return models.ExecutiveDashboard{}, err
	}
	activeRequests, err := s.repo.CountActiveRequests(ctx, centerID)
	if err != nil {
		return models.ExecutiveDashboard{}, err
	}
	openSessions, err := s.repo.CountOpenSessions(ctx)
	if err != nil {
		return models.ExecutiveDashboard{}, err
	}

	scope := "national"
	if centerID != "" {
		scope = centerID
	}
	topTypes, _ = SuppressSmallCells(topTypes, s.threshold)
	dashboard = models.ExecutiveDashboard{
		Scope:          scope,
		TimeRange:      timeRange,
		TotalCases:     cases,
		TotalDeaths:    deaths,
		ActiveRequests: activeRequests,
		OpenSessions:   openSessions,
		TopCancerTypes: topTypes,
		GeneratedAt:    s.nowFunc().UTC(),
	}
	s.cache.CacheDashboardData(ctx, centerID, timeRange, dashboard)
	return dashboard, nil
}

// QueryAggregates runs a filtered aggregate query with small-cell suppression
// applied before anything is cached or returned.
func (s *Service) QueryAggregates(ctx context.Context, q models.AggregateQuery) ([]models.AggregateRow, int, error) {
	params := aggregateParams(q)

	var cached struct {
		Rows       []models.AggregateRow `json:"rows"`
		Suppressed int                   `json:"suppressed"`
	}
	if s.cache.GetAnalyticsQuery(ctx, "aggregates", params, &cached) {
		return cached.Rows, cached.Suppressed, nil
	}

	rows, err := s.repo.QueryAggregates(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	rows, suppressed := SuppressSmallCells(rows, s.threshold)

	cached.Rows = rows
	cached.Suppressed = suppressed
	s.cache.CacheAnalyticsQuery(ctx, "aggregates", params, cached)
	return rows, suppressed, nil
}

// GeographicData pages through suppressed geographic rows. Total reflects the
// pre-suppression row count; TotalPages is computed from the surviving rows.
func (s *Service) GeographicData(ctx context.Context, q models.GeographicQuery) (models.GeographicPage, error) {
	page, pageSize := normalizePage(q.Page, q.PageSize)
	params := geographicParams(q)

	var result models.GeographicPage
	if s.cache.Get(ctx, cache.GeographicKey(params), &result) {
		return result, nil
	}

	rows, err := s.repo.GeographicRows(ctx, q)
	if err != nil {
		return models.GeographicPage{}, err
	}
	total := len(rows)
	kept, suppressed := SuppressGeographicCells(rows, s.threshold)

	result = models.GeographicPage{
		Data:       pageSlice(kept, page, pageSize),
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages(len(kept), pageSize),
		Suppressed: suppressed,
	}
	s.cache.CacheAnalyticsQuery(ctx, "geographic", params, result)
	return result, nil
}

// PredictIncidence fits a linear trend over the national yearly history for a
// cancer type and extrapolates it.
func (s *Service) PredictIncidence(ctx context.Context, cancerType string, yearsAhead int) (models.IncidenceForecast, error) {
	if cancerType == "" {
		return models.IncidenceForecast{}, apperr.BadRequest("cancer_type is required")
	}
	if yearsAhead <= 0 {
		yearsAhead = defaultYearsAhead
	}
	if yearsAhead > maxForecastHorizon {
		return models.IncidenceForecast{}, apperr.BadRequest("forecast horizon exceeds %d years", maxForecastHorizon)
	}

	scope := cancerType + ":" + strconv.Itoa(yearsAhead)
	var forecast models.IncidenceForecast
	if s.cache.GetPredictiveModel(ctx, "incidence", scope, &forecast) {
		return forecast, nil
	}

	history, err := s.repo.HistoryByYear(ctx, cancerType)
	if err != nil {
		return models.IncidenceForecast{}, err
	}
	if len(history) < minHistoryPoints {
		return models.IncidenceForecast{}, apperr.BadRequest(
			"not enough history for %s: need at least %d years", cancerType, minHistoryPoints)
	}

	slope, intercept, r2 := FitTrend(history)
	forecast = models.IncidenceForecast{
		CancerType: cancerType,
		History:    history,
		Forecast:   ForecastIncidence(history, yearsAhead),
		Model: map[string]float64{
			"slope":     slope,
			"intercept": intercept,
			"r2":        r2,
		},
	}
	s.cache.CachePredictiveModel(ctx, "incidence", scope, forecast)
	return forecast, nil
}

// ResearchImpact summarizes completed research output for a center, or
// nationally when centerID is empty.
func (s *Service) ResearchImpact(ctx context.Context, centerID string) (models.ResearchImpactSummary, error) {
	scope := "national"
	if centerID != "" {
		scope = centerID
	}

	var summary models.ResearchImpactSummary
	if s.cache.GetResearchImpact(ctx, scope, &summary) {
		return summary, nil
	}

	completed, err := s.repo.CountCompletedRequests(ctx, centerID)
	if err != nil {
		return models.ResearchImpactSummary{}, err
	}
	publications, citations, err := s.repo.PublicationStats(ctx, centerID)
	if err != nil {
		return models.ResearchImpactSummary{}, err
	}
	reused, err := s.repo.CountDatasetsReused(ctx, centerID)
	if err != nil {
		return models.ResearchImpactSummary{}, err
	}

	summary = models.ResearchImpactSummary{
		Scope:             scope,
		CompletedRequests: completed,
		Publications:      publications,
		TotalCitations:    citations,
		DatasetsReused:    reused,
		GeneratedAt:       s.nowFunc().UTC(),
	}
	s.cache.CacheResearchImpact(ctx, scope, summary)
	return summary, nil
}

// RefreshDashboards recomputes the national dashboard plus one per center,
// replacing whatever is cached.
func (s *Service) RefreshDashboards(ctx context.Context) error {
	centerIDs, err := s.repo.DistinctCenterIDs(ctx)
	if err != nil {
		return err
	}
	scopes := append([]string{""}, centerIDs...)
	for _, centerID := range scopes {
		s.cache.Delete(ctx, cache.ExecutiveDashboardKey(centerID, defaultTimeRange))
		if _, err := s.ExecutiveDashboard(ctx, centerID, defaultTimeRange); err != nil {
			return err
		}
	}
	return nil
}

// WarmAggregates precomputes the common aggregate groupings so first requests
// after a cache flush do not pay the query cost.
func (s *Service) WarmAggregates(ctx context.Context) error {
	for _, groupBy := range []string{"cancer_type", "year", "center"} {
		if _, _, err := s.QueryAggregates(ctx, models.AggregateQuery{GroupBy: groupBy}); err != nil {
			return err
		}
	}
	return nil
}

// yearFromRange maps a time-range token ("1y", "5y", "10y", "all") to the
// first year included.
func (s *Service) yearFromRange(timeRange string) (int, error) {
	if timeRange == "all" {
		return 0, nil
	}
	if len(timeRange) < 2 || timeRange[len(timeRange)-1] != 'y' {
		return 0, apperr.BadRequest("unsupported time range %q", timeRange)
	}
	years, err := strconv.Atoi(timeRange[:len(timeRange)-1])
	if err != nil || years <= 0 {
		return 0, apperr.BadRequest("unsupported time range %q", timeRange)
	}
	return s.nowFunc().UTC().Year() - years + 1, nil
}

func aggregateParams(q models.AggregateQuery) map[string]string {
	params := map[string]string{
		"center":      q.CenterID,
		"cancer_type": q.CancerType,
		"sex":         q.Sex,
		"age_band":    q.AgeBand,
		"group_by":    q.GroupBy,
	}
	if q.YearFrom > 0 {
		params["year_from"] = strconv.Itoa(q.YearFrom)
	}
	if q.YearTo > 0 {
		params["year_to"] = strconv.Itoa(q.YearTo)
	}
	return params
}

func geographicParams(q models.GeographicQuery) map[string]string {
	page, pageSize := normalizePage(q.Page, q.PageSize)
	params := map[string]string{
		"cancer_type": q.CancerType,
		"region":      q.Region,
		"page":        strconv.Itoa(page),
		"page_size":   strconv.Itoa(pageSize),
	}
	if q.Year > 0 {
		params["year"] = strconv.Itoa(q.Year)
	}
	return params
}

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return page, pageSize
}

func pageSlice(rows []models.GeographicRow, page, pageSize int) []models.GeographicRow {
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return []models.GeographicRow{}
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

func totalPages(count, pageSize int) int {
	if count == 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}
