package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oncentra/registry/pkg/common/apperr"
	"github.com/oncentra/registry/pkg/common/models"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// aggregateStatModel holds pre-aggregated registry counts. Rows are loaded by
// the registry's ETL and never carry patient-level data.
type aggregateStatModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CenterID   string    `gorm:"index"`
	CancerType string    `gorm:"index"`
	Sex        string
	AgeBand    string
	Year       int `gorm:"index"`
	CaseCount  int
	DeathCount int
	Population int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (aggregateStatModel) TableName() string { return "aggregate_stats" }

type geographicStatModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Region     string    `gorm:"index"`
	District   string
	CancerType string `gorm:"index"`
	Year       int    `gorm:"index"`
	CaseCount  int
	Population int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (geographicStatModel) TableName() string { return "geographic_stats" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&aggregateStatModel{}, &geographicStatModel{})
}

var groupByColumns = map[string]string{
	"cancer_type": "cancer_type",
	"year":        "year",
	"sex":         "sex",
	"age_band":    "age_band",
	"center":      "center_id",
}

// QueryAggregates sums case and death counts over the filtered rows, grouped
// by the requested dimension. Without group_by it returns per-row detail.
func (r *Repository) QueryAggregates(ctx context.Context, q models.AggregateQuery) ([]models.AggregateRow, error) {
	query := r.filteredAggregates(ctx, q)

	if q.GroupBy != "" {
		column, ok := groupByColumns[q.GroupBy]
		if !ok {
			return nil, apperr.BadRequest("unsupported group_by %q", q.GroupBy)
		}
		var results []struct {
			Group      string
			CaseCount  int
			DeathCount int
		}
		err := query.
			Select(column + " as \"group\", SUM(case_count) as case_count, SUM(death_count) as death_count").
			Group(column).
			Order("case_count desc").
			Scan(&results).Error
		if err != nil {
			return nil, err
		}
		rows := make([]models.AggregateRow, 0, len(results))
		for _, res := range results {
			rows = append(rows, models.AggregateRow{
				Group:      res.Group,
				CaseCount:  res.CaseCount,
				DeathCount: res.DeathCount,
			})
		}
		return rows, nil
	}

	var stats []aggregateStatModel
	if err := query.Order("year asc, cancer_type asc").Find(&stats).Error; err != nil {
		return nil, err
	}
	rows := make([]models.AggregateRow, 0, len(stats))
	for _, stat := range stats {
		row := models.AggregateRow{
			CenterID:   stat.CenterID,
			CancerType: stat.CancerType,
			Sex:        stat.Sex,
			AgeBand:    stat.AgeBand,
			Year:       stat.Year,
			CaseCount:  stat.CaseCount,
			DeathCount: stat.DeathCount,
		}
		if stat.Population > 0 {
			row.Incidence = float64(stat.CaseCount) / float64(stat.Population) * 100000
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *Repository) filteredAggregates(ctx context.Context, q models.AggregateQuery) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&aggregateStatModel{})
	if q.CenterID != "" {
		query = query.Where("center_id = ?", q.CenterID)
	}
	if q.CancerType != "" {
		query = query.Where("cancer_type = ?", q.CancerType)
	}
	if q.Sex != "" {
		query = query.Where("sex = ?", q.Sex)
	}
	if q.AgeBand != "" {
		query = query.Where("age_band = ?", q.AgeBand)
	}
	if q.YearFrom > 0 {
		query = query.Where("year >= ?", q.YearFrom)
	}
	if q.YearTo > 0 {
		query = query.Where("year <= ?", q.YearTo)
	}
	return query
}

type totals struct {
	Cases  int
	Deaths int
}

func (r *Repository) Totals(ctx context.Context, centerID string, yearFrom int) (int, int, error) {
	query := r.db.WithContext(ctx).Model(&aggregateStatModel{})
	if centerID != "" {
		query = query.Where("center_id = ?", centerID)
	}
	if yearFrom > 0 {
		query = query.Where("year >= ?", yearFrom)
	}
	var t totals
	err := query.
		Select("COALESCE(SUM(case_count),0) as cases, COALESCE(SUM(death_count),0) as deaths").
		Scan(&t).Error
	return t.Cases, t.Deaths, err
}

func (r *Repository) TopCancerTypes(ctx context.Context, centerID string, yearFrom, limit int) ([]models.AggregateRow, error) {
	if limit <= 0 {
		limit = 5
	}
	query := r.db.WithContext(ctx).Model(&aggregateStatModel{})
	if centerID != "" {
		query = query.Where("center_id = ?", centerID)
	}
	if yearFrom > 0 {
		query = query.Where("year >= ?", yearFrom)
	}

	var results []struct {
		CancerType string
		CaseCount  int
		DeathCount int
	}
	err := query.
		Select("cancer_type, SUM(case_count) as case_count, SUM(death_count) as death_count").
		Group("cancer_type").
		Order("case_count desc").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	rows := make([]models.AggregateRow, 0, len(results))
	for _, res := range results {
		rows = append(rows, models.AggregateRow{
			CancerType: res.CancerType,
			CaseCount:  res.CaseCount,
			DeathCount: res.DeathCount,
		})
	}
	return rows, nil
}

func (r *Repository) GeographicRows(ctx context.Context, q models.GeographicQuery) ([]models.GeographicRow, error) {
	query := r.db.WithContext(ctx).Model(&geographicStatModel{})
	if q.CancerType != "" {
		query = query.Where("cancer_type = ?", q.CancerType)
	}
	if q.Year > 0 {
		query = query.Where("year = ?", q.Year)
	}
	if q.Region != "" {
		query = query.Where("region = ?", q.Region)
	}

	var stats []geographicStatModel
	if err := query.Order("region asc, district asc, year asc").Find(&stats).Error; err != nil {
		return nil, err
	}

	rows := make([]models.GeographicRow, 0, len(stats))
	for _, stat := range stats {
		row := models.GeographicRow{
			Region:     stat.Region,
			District:   stat.District,
			CancerType: stat.CancerType,
			Year:       stat.Year,
			CaseCount:  stat.CaseCount,
			Population: stat.Population,
		}
		if stat.Population > 0 {
			row.Rate = float64(stat.CaseCount) / float64(stat.Population) * 100000
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// HistoryByYear returns national yearly case totals for one cancer type,
// oldest first, as input to the trend fit.
func (r *Repository) HistoryByYear(ctx context.Context, cancerType string) ([]models.ForecastPoint, error) {
	var results []struct {
		Year      int
		CaseCount int
	}
	err := r.db.WithContext(ctx).Model(&aggregateStatModel{}).
		Select("year, SUM(case_count) as case_count").
		Where("cancer_type = ?", cancerType).
		Group("year").
		Order("year asc").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	points := make([]models.ForecastPoint, 0, len(results))
	for _, res := range results {
		points = append(points, models.ForecastPoint{Year: res.Year, Cases: float64(res.CaseCount)})
	}
	return points, nil
}

func (r *Repository) DistinctCenterIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&aggregateStatModel{}).
		Distinct("center_id").
		Order("center_id asc").
		Pluck("center_id", &ids).Error
	return ids, err
}

// Research-impact counters read the workflow tables directly. These are
// read-only aggregates; the research package owns the writes.

func (r *Repository) CountCompletedRequests(ctx context.Context, centerID string) (int, error) {
	query := r.db.WithContext(ctx).Table("research_requests").
		Where("status = ?", models.RequestStatusCompleted)
	if centerID != "" {
		query = query.Where("center_id = ?", centerID)
	}
	var count int64
	err := query.Count(&count).Error
	return int(count), err
}

func (r *Repository) PublicationStats(ctx context.Context, centerID string) (int, int, error) {
	query := r.db.WithContext(ctx).Table("publications").
		Joins("JOIN research_requests ON research_requests.id = publications.request_id")
	if centerID != "" {
		query = query.Where("research_requests.center_id = ?", centerID)
	}
	var result struct {
		Publications int
		Citations    int
	}
	err := query.
		Select("COUNT(publications.id) as publications, COALESCE(SUM(publications.citations),0) as citations").
		Scan(&result).Error
	return result.Publications, result.Citations, err
}

func (r *Repository) CountDatasetsReused(ctx context.Context, centerID string) (int, error) {
	query := r.db.WithContext(ctx).Table("data_access_sessions").
		Joins("JOIN research_requests ON research_requests.id = data_access_sessions.request_id")
	if centerID != "" {
		query = query.Where("research_requests.center_id = ?", centerID)
	}
	var count int64
	err := query.Distinct("data_access_sessions.request_id").Count(&count).Error
	return int(count), err
}

func (r *Repository) CountActiveRequests(ctx context.Context, centerID string) (int, error) {
	query := r.db.WithContext(ctx).Table("research_requests").
		Where("status IN ?", []string{
			models.RequestStatusPendingReview,
			models.RequestStatusUnderReview,
			models.RequestStatusApproved,
		})
	if centerID != "" {
		query = query.Where("center_id = ?", centerID)
	}
	var count int64
	err := query.Count(&count).Error
	return int(count), err
}

func (r *Repository) CountOpenSessions(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("data_access_sessions").
		Where("end_time IS NULL").
		Count(&count).Error
	return int(count), err
}
