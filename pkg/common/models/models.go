package models

import (
	"time"

	"github.com/google/uuid"
)

// Identity & access

type Center struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Region    string    `json:"region,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type User struct {
	ID         uuid.UUID              `json:"id"`
	CenterID   uuid.UUID              `json:"center_id"`
	Email      string                 `json:"email"`
	Name       string                 `json:"name"`
	Role       string                 `json:"role"`
	MFAEnabled bool                   `json:"mfa_enabled"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

type BootstrapRequest struct {
	CenterCode    string `json:"center_code"`
	CenterName    string `json:"center_name"`
	AdminEmail    string `json:"admin_email"`
	AdminName     string `json:"admin_name,omitempty"`
	AdminPassword string `json:"admin_password"`
}

type RegisterUserRequest struct {
	CenterID uuid.UUID              `json:"center_id,omitempty"`
	Email    string                 `json:"email"`
	Name     string                 `json:"name,omitempty"`
	Role     string                 `json:"role,omitempty"`
	Password string                 `json:"password"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyMFARequest struct {
	Ticket string `json:"ticket"`
	Code   string `json:"code"`
}

type ActivateMFARequest struct {
	Code string `json:"code"`
}

// AuthResponse carries either a completed login (Token set) or a pending MFA
// challenge (MFARequired set with the ticket to present to /auth/mfa/verify).
type AuthResponse struct {
	Token       string `json:"token,omitempty"`
	MFARequired bool   `json:"mfa_required,omitempty"`
	Ticket      string `json:"ticket,omitempty"`
	User        *User  `json:"user,omitempty"`
}

type EnrollMFAResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

// Research requests

const (
	RequestStatusDraft         = "DRAFT"
	RequestStatusPendingReview = "PENDING_REVIEW"
	RequestStatusUnderReview   = "UNDER_REVIEW"
	RequestStatusApproved      = "APPROVED"
	RequestStatusRejected      = "REJECTED"
	RequestStatusCompleted     = "COMPLETED"
)

const (
	EthicsStatusNotRequired = "NOT_REQUIRED"
	EthicsStatusPending     = "PENDING"
	EthicsStatusApproved    = "APPROVED"
)

type ResearchRequest struct {
	ID                       uuid.UUID  `json:"id"`
	CenterID                 uuid.UUID  `json:"center_id"`
	CreatedBy                uuid.UUID  `json:"created_by"`
	PrincipalInvestigator    uuid.UUID  `json:"principal_investigator"`
	Title                    string     `json:"title"`
	Description              string     `json:"description,omitempty"`
	StudyType                string     `json:"study_type,omitempty"`
	SampleSize               int        `json:"sample_size"`
	DurationMonths           int        `json:"duration_months,omitempty"`
	RequestedData            []string   `json:"requested_data,omitempty"`
	ConfidentialityReqs      string     `json:"confidentiality_requirements,omitempty"`
	RetentionPeriodMonths    int        `json:"retention_period_months,omitempty"`
	EthicsApprovalRequired   bool       `json:"ethics_approval_required"`
	EthicsStatus             string     `json:"ethics_status"`
	Status                   string     `json:"status"`
	SubmittedAt              *time.Time `json:"submitted_at,omitempty"`
	CompletedAt              *time.Time `json:"completed_at,omitempty"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

type CreateResearchRequestRequest struct {
	Title                  string    `json:"title"`
	Description            string    `json:"description,omitempty"`
	StudyType              string    `json:"study_type,omitempty"`
	SampleSize             int       `json:"sample_size"`
	DurationMonths         int       `json:"duration_months,omitempty"`
	RequestedData          []string  `json:"requested_data,omitempty"`
	ConfidentialityReqs    string    `json:"confidentiality_requirements,omitempty"`
	RetentionPeriodMonths  int       `json:"retention_period_months,omitempty"`
	EthicsApprovalRequired bool      `json:"ethics_approval_required"`
	PrincipalInvestigator  uuid.UUID `json:"principal_investigator,omitempty"`
}

type UpdateResearchRequestRequest struct {
	Title                 *string  `json:"title,omitempty"`
	Description           *string  `json:"description,omitempty"`
	StudyType             *string  `json:"study_type,omitempty"`
	SampleSize            *int     `json:"sample_size,omitempty"`
	DurationMonths        *int     `json:"duration_months,omitempty"`
	RequestedData         []string `json:"requested_data,omitempty"`
	ConfidentialityReqs   *string  `json:"confidentiality_requirements,omitempty"`
	RetentionPeriodMonths *int     `json:"retention_period_months,omitempty"`
}

// Approvals

const (
	ApprovalLevelCenterDirector  = "CENTER_DIRECTOR"
	ApprovalLevelDataSteward     = "DATA_STEWARD"
	ApprovalLevelPrivacyOfficer  = "PRIVACY_OFFICER"
	ApprovalLevelEthicsCommittee = "ETHICS_COMMITTEE"
	ApprovalLevelNationalAdmin   = "NATIONAL_ADMIN"
)

const (
	ApprovalStatusPending  = "PENDING"
	ApprovalStatusApproved = "APPROVED"
	ApprovalStatusRejected = "REJECTED"
)

type ResearchApproval struct {
	ID          uuid.UUID  `json:"id"`
	RequestID   uuid.UUID  `json:"request_id"`
	Level       string     `json:"level"`
	Status      string     `json:"status"`
	ApproverID  *uuid.UUID `json:"approver_id,omitempty"`
	DelegatedTo *uuid.UUID `json:"delegated_to,omitempty"`
	Comments    string     `json:"comments,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateApprovalRequest struct {
	Level       string     `json:"level"`
	Status      string     `json:"status"`
	Comments    string     `json:"comments,omitempty"`
	DelegatedTo *uuid.UUID `json:"delegated_to,omitempty"`
}

type UpdateApprovalRequest struct {
	Status      *string    `json:"status,omitempty"`
	Comments    *string    `json:"comments,omitempty"`
	DelegatedTo *uuid.UUID `json:"delegated_to,omitempty"`
}

// Collaborations

const (
	CollaborationStatusPending  = "PENDING"
	CollaborationStatusAccepted = "ACCEPTED"
	CollaborationStatusDeclined = "DECLINED"
	CollaborationStatusActive   = "ACTIVE"
)

type ResearchCollaboration struct {
	ID             uuid.UUID  `json:"id"`
	RequestID      uuid.UUID  `json:"request_id"`
	CollaboratorID uuid.UUID  `json:"collaborator_id"`
	InvitedBy      uuid.UUID  `json:"invited_by"`
	Role           string     `json:"role,omitempty"`
	Status         string     `json:"status"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	DeclinedAt     *time.Time `json:"declined_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type CreateCollaborationRequest struct {
	CollaboratorID uuid.UUID `json:"collaborator_id"`
	Role           string    `json:"role,omitempty"`
}

type UpdateCollaborationStatusRequest struct {
	Status string `json:"status"`
}

// Data-access sessions

const (
	AccessLevelAggregateOnly = "AGGREGATE_ONLY"
	AccessLevelStandard      = "STANDARD"
	AccessLevelFullAccess    = "FULL_ACCESS"
)

const (
	ComplianceStatusCompliant = "COMPLIANT"
	ComplianceStatusWarning   = "WARNING"
	ComplianceStatusViolation = "VIOLATION"
)

type DataAccessSession struct {
	ID               uuid.UUID  `json:"id"`
	RequestID        uuid.UUID  `json:"request_id"`
	UserID           uuid.UUID  `json:"user_id"`
	AccessLevel      string     `json:"access_level"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	DurationMinutes  float64    `json:"duration_minutes,omitempty"`
	DataAccessed     []string   `json:"data_accessed,omitempty"`
	QueriesExecuted  []string   `json:"queries_executed,omitempty"`
	AccessCount      int        `json:"access_count"`
	ComplianceStatus string     `json:"compliance_status,omitempty"`
	ViolationReason  string     `json:"violation_reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type OpenSessionRequest struct {
	AccessLevel string `json:"access_level,omitempty"`
}

type CloseSessionRequest struct {
	DataAccessed    []string `json:"data_accessed,omitempty"`
	QueriesExecuted []string `json:"queries_executed,omitempty"`
	AccessCount     int      `json:"access_count"`
}

// Publications & impact

type Publication struct {
	ID          uuid.UUID  `json:"id"`
	RequestID   uuid.UUID  `json:"request_id"`
	Title       string     `json:"title"`
	Journal     string     `json:"journal,omitempty"`
	DOI         string     `json:"doi,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Citations   int        `json:"citations"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreatePublicationRequest struct {
	Title       string     `json:"title"`
	Journal     string     `json:"journal,omitempty"`
	DOI         string     `json:"doi,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Citations   int        `json:"citations,omitempty"`
}

type ImpactMetric struct {
	ID         uuid.UUID `json:"id"`
	RequestID  uuid.UUID `json:"request_id"`
	MetricType string    `json:"metric_type"`
	Value      float64   `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Analytics

type AggregateQuery struct {
	CenterID   string `json:"center_id,omitempty"`
	CancerType string `json:"cancer_type,omitempty"`
	Sex        string `json:"sex,omitempty"`
	AgeBand    string `json:"age_band,omitempty"`
	YearFrom   int    `json:"year_from,omitempty"`
	YearTo     int    `json:"year_to,omitempty"`
	GroupBy    string `json:"group_by,omitempty"`
}

type AggregateRow struct {
	CenterID   string  `json:"center_id,omitempty"`
	CancerType string  `json:"cancer_type,omitempty"`
	Sex        string  `json:"sex,omitempty"`
	AgeBand    string  `json:"age_band,omitempty"`
	Year       int     `json:"year,omitempty"`
	Group      string  `json:"group,omitempty"`
	CaseCount  int     `json:"case_count"`
	DeathCount int     `json:"death_count,omitempty"`
	Incidence  float64 `json:"incidence_rate,omitempty"`
}

type GeographicQuery struct {
	CancerType string `json:"cancer_type,omitempty"`
	Year       int    `json:"year,omitempty"`
	Region     string `json:"region,omitempty"`
	Page       int    `json:"page,omitempty"`
	PageSize   int    `json:"page_size,omitempty"`
}

type GeographicRow struct {
	Region     string  `json:"region"`
	District   string  `json:"district,omitempty"`
	CancerType string  `json:"cancer_type,omitempty"`
	Year       int     `json:"year"`
	CaseCount  int     `json:"case_count"`
	Population int     `json:"population,omitempty"`
	Rate       float64 `json:"rate_per_100k,omitempty"`
}

// GeographicPage metadata: Total is the pre-suppression row count while
// TotalPages reflects pages after suppression. Callers must not assume the
// two are consistent with each other.
type GeographicPage struct {
	Data       []GeographicRow `json:"data"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
	Suppressed int             `json:"suppressed"`
}

type ExecutiveDashboard struct {
	Scope          string         `json:"scope"`
	TimeRange      string         `json:"time_range"`
	TotalCases     int            `json:"total_cases"`
	TotalDeaths    int            `json:"total_deaths"`
	ActiveRequests int            `json:"active_requests"`
	OpenSessions   int            `json:"open_sessions"`
	TopCancerTypes []AggregateRow `json:"top_cancer_types"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

type IncidenceForecast struct {
	CancerType string             `json:"cancer_type"`
	History    []ForecastPoint    `json:"history"`
	Forecast   []ForecastPoint    `json:"forecast"`
	Model      map[string]float64 `json:"model"`
}

type ForecastPoint struct {
	Year  int     `json:"year"`
	Cases float64 `json:"cases"`
}

type ResearchImpactSummary struct {
	Scope             string    `json:"scope"`
	CompletedRequests int       `json:"completed_requests"`
	Publications      int       `json:"publications"`
	TotalCitations    int       `json:"total_citations"`
	DatasetsReused    int       `json:"datasets_reused"`
	GeneratedAt       time.Time `json:"generated_at"`
}
