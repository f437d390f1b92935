package research

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oncentra/registry/pkg/common/apperr"
	"github.com/oncentra/registry/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type requestModel struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey"`
	CenterID               uuid.UUID `gorm:"type:uuid;index"`
	CreatedBy              uuid.UUID `gorm:"type:uuid;index"`
	PrincipalInvestigator  uuid.UUID `gorm:"type:uuid;index"`
	Title                  string
	Description            string
	StudyType              string
	SampleSize             int
	DurationMonths         int
	RequestedData          datatypes.JSON
	ConfidentialityReqs    string
	RetentionPeriodMonths  int
	EthicsApprovalRequired bool
	EthicsStatus           string
	Status                 string `gorm:"index"`
	SubmittedAt            *time.Time
	CompletedAt            *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (requestModel) TableName() string { return "research_requests" }

type approvalModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RequestID   uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_request_level"`
	Level       string     `gorm:"uniqueIndex:idx_request_level"`
	Status      string     `gorm:"index"`
	ApproverID  *uuid.UUID `gorm:"type:uuid"`
	DelegatedTo *uuid.UUID `gorm:"type:uuid"`
	Comments    string
	ApprovedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (approvalModel) TableName() string { return "research_approvals" }

type collaborationModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID      uuid.UUID `gorm:"type:uuid;index"`
	CollaboratorID uuid.UUID `gorm:"type:uuid;index"`
	InvitedBy      uuid.UUID `gorm:"type:uuid"`
	Role           string
	Status         string `gorm:"index"`
	AcceptedAt     *time.Time
	DeclinedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (collaborationModel) TableName() string { return "research_collaborations" }

type sessionModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID        uuid.UUID `gorm:"type:uuid;index"`
	UserID           uuid.UUID `gorm:"type:uuid;index"`
	AccessLevel      string
	StartTime        time.Time
	EndTime          *time.Time
	DurationMinutes  float64
	DataAccessed     datatypes.JSON
	QueriesExecuted  datatypes.JSON
	AccessCount      int
	ComplianceStatus string
	ViolationReason  string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (sessionModel) TableName() string { return "data_access_sessions" }

type publicationModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID   uuid.UUID `gorm:"type:uuid;index"`
	Title       string
	Journal     string
	DOI         string
	PublishedAt *time.Time
	Citations   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (publicationModel) TableName() string { return "publications" }

type impactMetricModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID  uuid.UUID `gorm:"type:uuid;index"`
	MetricType string    `gorm:"index"`
	Value      float64
	RecordedAt time.Time
}

func (impactMetricModel) TableName() string { return "impact_metrics" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&requestModel{},
		&approvalModel{},
		&collaborationModel{},
		&sessionModel{},
		&publicationModel{},
		&impactMetricModel{},
	)
}

// Requests

type CreateRequestInput struct {
	CenterID              uuid.UUID
	CreatedBy             uuid.UUID
	PrincipalInvestigator uuid.UUID
	Request               models.CreateResearchRequestRequest
}

func (r *Repository) CreateRequest(ctx context.Context, input CreateRequestInput) (models.ResearchRequest, error) {
	ethicsStatus := models.EthicsStatusNotRequired
	if input.Request.EthicsApprovalRequired {
		ethicsStatus = models.EthicsStatusPending
	}
	row := requestModel{
		ID:                     uuid.New(),
		CenterID:               input.CenterID,
		CreatedBy:              input.CreatedBy,
		PrincipalInvestigator:  input.PrincipalInvestigator,
		Title:                  input.Request.Title,
		Description:            input.Request.Description,
		StudyType:              input.Request.StudyType,
		SampleSize:             input.Request.SampleSize,
		DurationMonths:         input.Request.DurationMonths,
		RequestedData:          toJSONList(input.Request.RequestedData),
		ConfidentialityReqs:    input.Request.ConfidentialityReqs,
		RetentionPeriodMonths:  input.Request.RetentionPeriodMonths,
		EthicsApprovalRequired: input.Request.EthicsApprovalRequired,
		EthicsStatus:           ethicsStatus,
		Status:                 models.RequestStatusDraft,
		CreatedAt:              time.Now().UTC(),
		UpdatedAt:              time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.ResearchRequest{}, err
	}
	return toRequest(row), nil
}

func (r *Repository) GetRequest(ctx context.Context, id uuid.UUID) (models.ResearchRequest, error) {
	var row requestModel
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ResearchRequest{}, apperr.NotFound("research request %s not found", id)
	}
	if err != nil {
		return models.ResearchRequest{}, err
	}
	return toRequest(row), nil
}

type RequestFilter struct {
	CenterID  uuid.UUID
	CreatedBy uuid.UUID
	Status    string
	Limit     int
}

func (r *Repository) ListRequests(ctx context.Context, filter RequestFilter) ([]models.ResearchRequest, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := r.db.WithContext(ctx).Model(&requestModel{})
	if filter.CenterID != uuid.Nil {
		query = query.Where("center_id = ?", filter.CenterID)
	}
	if filter.CreatedBy != uuid.Nil {
		query = query.Where("created_by = ?", filter.CreatedBy)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var rows []requestModel
	if err := query.Order("created_at desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	requests := make([]models.ResearchRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, toRequest(row))
	}
	return requests, nil
}

func (r *Repository) UpdateRequestFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&requestModel{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("research request %s not found", id)
	}
	return nil
}

func (r *Repository) UpdateRequestStatus(ctx context.Context, id uuid.UUID, status string) error {
	fields := map[string]interface{}{"status": status}
	switch status {
	case models.RequestStatusPendingReview, models.RequestStatusUnderReview:
		if status == models.RequestStatusPendingReview {
			now := time.Now().UTC()
			fields["submitted_at"] = &now
		}
	case models.RequestStatusCompleted:
		now := time.Now().UTC()
		fields["completed_at"] = &now
	}
	return r.UpdateRequestFields(ctx, id, fields)
}

// Approvals

type CreateApprovalInput struct {
	RequestID   uuid.UUID
	Level       string
	Status      string
	ApproverID  *uuid.UUID
	DelegatedTo *uuid.UUID
	Comments    string
}

func (r *Repository) CreateApproval(ctx context.Context, input CreateApprovalInput) (models.ResearchApproval, error) {
	row := approvalModel{
		ID:          uuid.New(),
		RequestID:   input.RequestID,
		Level:       input.Level,
		Status:      input.Status,
		ApproverID:  input.ApproverID,
		DelegatedTo: input.DelegatedTo,
		Comments:    input.Comments,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if input.Status == models.ApprovalStatusApproved {
		now := time.Now().UTC()
		row.ApprovedAt = &now
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return models.ResearchApproval{}, apperr.Conflict("approval for level %s already exists", input.Level)
		}
		return models.ResearchApproval{}, err
	}
	return toApproval(row), nil
}

func (r *Repository) GetApproval(ctx context.Context, id uuid.UUID) (models.ResearchApproval, error) {
	var row approvalModel
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ResearchApproval{}, apperr.NotFound("approval %s not found", id)
	}
	if err != nil {
		return models.ResearchApproval{}, err
	}
	return toApproval(row), nil
}

func (r *Repository) FindApprovalByLevel(ctx context.Context, requestID uuid.UUID, level string) (models.ResearchApproval, bool, error) {
	var row approvalModel
	err := r.db.WithContext(ctx).
		First(&row, "request_id = ? AND level = ?", requestID, level).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ResearchApproval{}, false, nil
	}
	if err != nil {
		return models.ResearchApproval{}, false, err
	}
	return toApproval(row), true, nil
}

func (r *Repository) ListApprovals(ctx context.Context, requestID uuid.UUID) ([]models.ResearchApproval, error) {
	var rows []approvalModel
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	approvals := make([]models.ResearchApproval, 0, len(rows))
	for _, row := range rows {
		approvals = append(approvals, toApproval(row))
	}
	return approvals, nil
}

func (r *Repository) UpdateApproval(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&approvalModel{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("approval %s not found", id)
	}
	return nil
}

func (r *Repository) HasApprovedApproval(ctx context.Context, requestID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&approvalModel{}).
		Where("request_id = ? AND status = ?", requestID, models.ApprovalStatusApproved).
		Count(&count).Error
	return count > 0, err
}

// Collaborations

type CreateCollaborationInput struct {
	RequestID      uuid.UUID
	CollaboratorID uuid.UUID
	InvitedBy      uuid.UUID
	Role           string
}

func (r *Repository) CreateCollaboration(ctx context.Context, input CreateCollaborationInput) (models.ResearchCollaboration, error) {
	row := collaborationModel{
		ID:             uuid.New(),
		RequestID:      input.RequestID,
		CollaboratorID: input.CollaboratorID,
		InvitedBy:      input.InvitedBy,
		Role:           input.Role,
		Status:         models.CollaborationStatusPending,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.ResearchCollaboration{}, err
	}
	return toCollaboration(row), nil
}

func (r *Repository) GetCollaboration(ctx context.Context, id uuid.UUID) (models.ResearchCollaboration, error) {
	var row collaborationModel
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ResearchCollaboration{}, apperr.NotFound("collaboration %s not found", id)
	}
	if err != nil {
		return models.ResearchCollaboration{}, err
	}
	return toCollaboration(row), nil
}

func (r *Repository) ListCollaborations(ctx context.Context, requestID uuid.UUID) ([]models.ResearchCollaboration, error) {
	var rows []collaborationModel
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	collaborations := make([]models.ResearchCollaboration, 0, len(rows))
	for _, row := range rows {
		collaborations = append(collaborations, toCollaboration(row))
	}
	return collaborations, nil
}

func (r *Repository) CountCollaborations(ctx context.Context, requestID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&collaborationModel{}).
		Where("request_id = ?", requestID).
		Count(&count).Error
	return int(count), err
}

func (r *Repository) UpdateCollaboration(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&collaborationModel{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("collaboration %s not found", id)
	}
	return nil
}

func (r *Repository) IsAcceptedCollaborator(ctx context.Context, requestID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&collaborationModel{}).
		Where("request_id = ? AND collaborator_id = ? AND status IN ?",
			requestID, userID,
			[]string{models.CollaborationStatusAccepted, models.CollaborationStatusActive}).
		Count(&count).Error
	return count > 0, err
}

// Sessions

type CreateSessionInput struct {
	RequestID   uuid.UUID
	UserID      uuid.UUID
	AccessLevel string
}

func (r *Repository) CreateSession(ctx context.Context, input CreateSessionInput) (models.DataAccessSession, error) {
	now := time.Now().UTC()
	row := sessionModel{
		ID:          uuid.New(),
		RequestID:   input.RequestID,
		UserID:      input.UserID,
		AccessLevel: input.AccessLevel,
		StartTime:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.DataAccessSession{}, err
	}
	return toSession(row), nil
}

func (r *Repository) GetSession(ctx context.Context, id uuid.UUID) (models.DataAccessSession, error) {
	var row sessionModel
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DataAccessSession{}, apperr.NotFound("session %s not found", id)
	}
	if err != nil {
		return models.DataAccessSession{}, err
	}
	return toSession(row), nil
}

type CloseSessionInput struct {
	EndTime          time.Time
	DurationMinutes  float64
	DataAccessed     []string
	QueriesExecuted  []string
	AccessCount      int
	ComplianceStatus string
	ViolationReason  string
}

func (r *Repository) CloseSession(ctx context.Context, id uuid.UUID, input CloseSessionInput) error {
	result := r.db.WithContext(ctx).Model(&sessionModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"end_time":          &input.EndTime,
			"duration_minutes":  input.DurationMinutes,
			"data_accessed":     toJSONList(input.DataAccessed),
			"queries_executed":  toJSONList(input.QueriesExecuted),
			"access_count":      input.AccessCount,
			"compliance_status": input.ComplianceStatus,
			"violation_reason":  input.ViolationReason,
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("session %s not found", id)
	}
	return nil
}

func (r *Repository) ListSessions(ctx context.Context, requestID uuid.UUID, limit int) ([]models.DataAccessSession, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []sessionModel
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("start_time desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	sessions := make([]models.DataAccessSession, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, toSession(row))
	}
	return sessions, nil
}

func (r *Repository) CountOpenSessions(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&sessionModel{}).
		Where("end_time IS NULL").
		Count(&count).Error
	return int(count), err
}

// Publications & impact

func (r *Repository) CreatePublication(ctx context.Context, requestID uuid.UUID, req models.CreatePublicationRequest) (models.Publication, error) {
	row := publicationModel{
		ID:          uuid.New(),
		RequestID:   requestID,
		Title:       req.Title,
		Journal:     req.Journal,
		DOI:         req.DOI,
		PublishedAt: req.PublishedAt,
		Citations:   req.Citations,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Publication{}, err
	}
	return toPublication(row), nil
}

func (r *Repository) ListPublications(ctx context.Context, requestID uuid.UUID) ([]models.Publication, error) {
	var rows []publicationModel
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	publications := make([]models.Publication, 0, len(rows))
	for _, row := range rows {
		publications = append(publications, toPublication(row))
	}
	return publications, nil
}

func (r *Repository) RecordImpactMetric(ctx context.Context, requestID uuid.UUID, metricType string, value float64) (models.ImpactMetric, error) {
	row := impactMetricModel{
		ID:         uuid.New(),
		RequestID:  requestID,
		MetricType: metricType,
		Value:      value,
		RecordedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.ImpactMetric{}, err
	}
	return models.ImpactMetric{
		ID:         row.ID,
		RequestID:  row.RequestID,
		MetricType: row.MetricType,
		Value:      row.Value,
		RecordedAt: row.RecordedAt,
	}, nil
}

// Row conversions

func toRequest(row requestModel) models.ResearchRequest {
	return models.ResearchRequest{
		ID:                     row.ID,
		CenterID:               row.CenterID,
		CreatedBy:              row.CreatedBy,
		PrincipalInvestigator:  row.PrincipalInvestigator,
		Title:                  row.Title,
		Description:            row.Description,
		StudyType:              row.StudyType,
		SampleSize:             row.SampleSize,
		DurationMonths:         row.DurationMonths,
		RequestedData:          fromJSONList(row.RequestedData),
		ConfidentialityReqs:    row.ConfidentialityReqs,
		RetentionPeriodMonths:  row.RetentionPeriodMonths,
		EthicsApprovalRequired: row.EthicsApprovalRequired,
		EthicsStatus:           row.EthicsStatus,
		Status:                 row.Status,
		SubmittedAt:            row.SubmittedAt,
		CompletedAt:            row.CompletedAt,
		CreatedAt:              row.CreatedAt,
		UpdatedAt:              row.UpdatedAt,
	}
}

func toApproval(row approvalModel) models.ResearchApproval {
	return models.ResearchApproval{
		ID:          row.ID,
		RequestID:   row.RequestID,
		Level:       row.Level,
		Status:      row.Status,
		ApproverID:  row.ApproverID,
		DelegatedTo: row.DelegatedTo,
		Comments:    row.Comments,
		ApprovedAt:  row.ApprovedAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func toCollaboration(row collaborationModel) models.ResearchCollaboration {
	return models.ResearchCollaboration{
		ID:             row.ID,
		RequestID:      row.RequestID,
		CollaboratorID: row.CollaboratorID,
		InvitedBy:      row.InvitedBy,
		Role:           row.Role,
		Status:         row.Status,
		AcceptedAt:     row.AcceptedAt,
		DeclinedAt:     row.DeclinedAt,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func toSession(row sessionModel) models.DataAccessSession {
	return models.DataAccessSession{
		ID:               row.ID,
		RequestID:        row.RequestID,
		UserID:           row.UserID,
		AccessLevel:      row.AccessLevel,
		StartTime:        row.StartTime,
		EndTime:          row.EndTime,
		DurationMinutes:  row.DurationMinutes,
		DataAccessed:     fromJSONList(row.DataAccessed),
		QueriesExecuted:  fromJSONList(row.QueriesExecuted),
		AccessCount:      row.AccessCount,
		ComplianceStatus: row.ComplianceStatus,
		ViolationReason:  row.ViolationReason,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

func toPublication(row publicationModel) models.Publication {
	return models.Publication{
		ID:          row.ID,
		RequestID:   row.RequestID,
		Title:       row.Title,
		Journal:     row.Journal,
		DOI:         row.DOI,
		PublishedAt: row.PublishedAt,
		Citations:   row.Citations,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func toJSONList(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(raw)
}

func fromJSONList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
