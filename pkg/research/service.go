package research

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oncentra/registry/pkg/auth"
	"github.com/oncentra/registry/pkg/common/apperr"
	"github.com/oncentra/registry/pkg/common/logger"
	"github.com/oncentra/registry/pkg/common/models"
	"github.com/oncentra/registry/pkg/notify"
)

// UserDirectory resolves user IDs to profiles for notification addressing.
// Satisfied by the auth service.
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (models.User, error)
}

// CacheInvalidator is the slice of the cache service the workflow needs.
type CacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) int
}

type AuditTrail interface {
	RecordEvent(ctx context.Context, actor, action, entity, entityID string, detail map[string]interface{})
}

type Service struct {
	repo     *Repository
	audit    AuditTrail
	notifier notify.Publisher
	users    UserDirectory
	cache    CacheInvalidator
	rules    ComplianceRules

	nowFunc func() time.Time
}

func NewService(repo *Repository, auditTrail AuditTrail, notifier notify.Publisher, users UserDirectory, cacheSvc CacheInvalidator, rules ComplianceRules) *Service {
	return &Service{
		repo:     repo,
		audit:    auditTrail,
		notifier: notifier,
		users:    users,
		cache:    cacheSvc,
		rules:    rules,
		nowFunc:  time.Now,
	}
}

// Requests

func (s *Service) CreateRequest(ctx context.Context, claims *auth.Claims, req models.CreateResearchRequestRequest) (models.ResearchRequest, error) {
	if req.Title == "" {
		return models.ResearchRequest{}, apperr.BadRequest("title is required")
	}
	if req.SampleSize < 0 {
		return models.ResearchRequest{}, apperr.BadRequest("sample size must not be negative")
	}

	pi := req.PrincipalInvestigator
	if pi == uuid.Nil {
		pi = claims.UserID
	}

	request, err := s.repo.CreateRequest(ctx, CreateRequestInput{
		CenterID:              claims.CenterID,
		CreatedBy:             claims.UserID,
		PrincipalInvestigator: pi,
		Request:               req,
	})
	if err != nil {
		return models.ResearchRequest{}, err
	}

	s.audit.RecordEvent(ctx, claims.UserID.String(), "request_created", "research_request", request.ID.String(),
		map[string]interface{}{"title": request.Title, "sample_size": request.SampleSize})
	return request, nil
}

func (s *Service) GetRequest(ctx context.Context, id uuid.UUID) (models.ResearchRequest, error) {
	return s.repo.GetRequest(ctx, id)
}

func (s *Service) ListRequests(ctx context.Context, filter RequestFilter) ([]models.ResearchRequest, error) {
	return s.repo.ListRequests(ctx, filter)
}

func (s *Service) UpdateRequest(ctx context.Context, claims *auth.Claims, id uuid.UUID, upd models.UpdateResearchRequestRequest) (models.ResearchRequest, error) {
	request, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return models.ResearchRequest{}, err
	}
	if request.CreatedBy != claims.UserID && !auth.HasPermission(claims.Permissions, auth.PermManageResearch) {
		return models.ResearchRequest{}, apperr.Unauthorized("only the creator may update the request")
	}
	if request.Status == models.RequestStatusApproved || request.Status == models.RequestStatusCompleted {
		return models.ResearchRequest{}, apperr.Conflict("request can no longer be edited in status %s", request.Status)
	}

	fields := map[string]interface{}{}
	if upd.Title != nil {
		fields["title"] = *upd.Title
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.StudyType != nil {
		fields["study_type"] = *upd.StudyType
	}
	if upd.SampleSize != nil {
		if *upd.SampleSize < 0 {
			return models.ResearchRequest{}, apperr.BadRequest("sample size must not be negative")
		}
		fields["sample_size"] = *upd.SampleSize
	}
	if upd.DurationMonths != nil {
		fields["duration_months"] = *upd.DurationMonths
	}
	if upd.RequestedData != nil {
		fields["requested_data"] = toJSONList(upd.RequestedData)
	}
	if upd.ConfidentialityReqs != nil {
		fields["confidentiality_reqs"] = *upd.ConfidentialityReqs
	}
	if upd.RetentionPeriodMonths != nil {
		fields["retention_period_months"] = *upd.RetentionPeriodMonths
	}
	if len(fields) == 0 {
		return request, nil
	}

	if err := s.repo.UpdateRequestFields(ctx, id, fields); err != nil {
		return models.ResearchRequest{}, err
	}
	s.audit.RecordEvent(ctx, claims.UserID.String(), "request_updated", "research_request", id.String(), nil)
	return s.repo.GetRequest(ctx, id)
}

// SubmitRequest moves a draft into review and initializes the approval
// workflow for every required level.
func (s *Service) SubmitRequest(ctx context.Context, claims *auth.Claims, id uuid.UUID) (models.ResearchRequest, error) {
	request, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return models.ResearchRequest{}, err
	}
	if request.CreatedBy != claims.UserID && request.PrincipalInvestigator != claims.UserID {
		return models.ResearchRequest{}, apperr.Unauthorized("only the creator or PI may submit the request")
	}
	if request.Status != models.RequestStatusDraft {
		return models.ResearchRequest{}, apperr.Conflict("request already submitted")
	}

	if err := s.repo.UpdateRequestStatus(ctx, id, models.RequestStatusPendingReview); err != nil {
		return models.ResearchRequest{}, err
	}
	if err := s.InitializeApprovalWorkflow(ctx, id); err != nil {
		return models.ResearchRequest{}, err
	}
	if err := s.repo.UpdateRequestStatus(ctx, id, models.RequestStatusUnderReview); err != nil {
		return models.ResearchRequest{}, err
	}

	s.audit.RecordEvent(ctx, claims.UserID.String(), "request_submitted", "research_request", id.String(), nil)
	s.notifyUser(ctx, request.PrincipalInvestigator, "Research request submitted", "research_request_submitted",
		map[string]interface{}{"request_id": id.String(), "title": request.Title})

	return s.repo.GetRequest(ctx, id)
}

// CompleteRequest closes out an approved study.
func (s *Service) CompleteRequest(ctx context.Context, claims *auth.Claims, id uuid.UUID) (models.ResearchRequest, error) {
	request, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return models.ResearchRequest{}, err
	}
	if request.CreatedBy != claims.UserID && request.PrincipalInvestigator != claims.UserID &&
		!auth.HasPermission(claims.Permissions, auth.PermManageResearch) {
		return models.ResearchRequest{}, apperr.Unauthorized("only the creator or PI may complete the request")
	}
	if request.Status != models.RequestStatusApproved {
		return models.ResearchRequest{}, apperr.Conflict("only approved requests can be completed")
	}
	if err := s.repo.UpdateRequestStatus(ctx, id, models.RequestStatusCompleted); err != nil {
		return models.ResearchRequest{}, err
	}
	s.audit.RecordEvent(ctx, claims.UserID.String(), "request_completed", "research_request", id.String(), nil)
	return s.repo.GetRequest(ctx, id)
}

// InitializeApprovalWorkflow creates a PENDING approval row for each required
// level. Levels that already have a row are left untouched.
func (s *Service) InitializeApprovalWorkflow(ctx context.Context, requestID uuid.UUID) error {
	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	collaborators, err := s.repo.CountCollaborations(ctx, requestID)
	if err != nil {
		return err
	}

	for _, level := range DetermineRequiredApprovalLevels(request, collaborators) {
		_, exists, err := s.repo.FindApprovalByLevel(ctx, requestID, level)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := s.repo.CreateApproval(ctx, CreateApprovalInput{
			RequestID: requestID,
			Level:     level,
			Status:    models.ApprovalStatusPending,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Approvals

func (s *Service) CreateApproval(ctx context.Context, claims *auth.Claims, requestID uuid.UUID, req models.CreateApprovalRequest) (models.ResearchApproval, error) {
	if !validApprovalLevel(req.Level) {
		return models.ResearchApproval{}, apperr.BadRequest("unknown approval level %q", req.Level)
	}
	if !validApprovalStatus(req.Status) {
		return models.ResearchApproval{}, apperr.BadRequest("unknown approval status %q", req.Status)
	}
	if !auth.HasPermission(claims.Permissions, auth.ApprovalPermission(req.Level)) {
		return models.ResearchApproval{}, apperr.Forbidden("caller may not approve at level %s", req.Level)
	}

	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return models.ResearchApproval{}, err
	}

	if existing, exists, err := s.repo.FindApprovalByLevel(ctx, requestID, req.Level); err != nil {
		return models.ResearchApproval{}, err
	} else if exists && existing.Status != models.ApprovalStatusPending {
		return models.ResearchApproval{}, apperr.Conflict("approval for level %s already decided", req.Level)
	} else if exists {
		// Workflow pre-created the PENDING row; decide it in place.
		approverID := claims.UserID
		fields := map[string]interface{}{
			"status":      req.Status,
			"approver_id": &approverID,
			"comments":    req.Comments,
		}
		if req.DelegatedTo != nil {
			fields["delegated_to"] = req.DelegatedTo
		}
		if req.Status == models.ApprovalStatusApproved {
			now := s.nowFunc().UTC()
			fields["approved_at"] = &now
		}
		if err := s.repo.UpdateApproval(ctx, existing.ID, fields); err != nil {
			return models.ResearchApproval{}, err
		}
		approval, err := s.repo.GetApproval(ctx, existing.ID)
		if err != nil {
			return models.ResearchApproval{}, err
		}
		return approval, s.afterApprovalChange(ctx, claims, request, approval)
	}

	approverID := claims.UserID
	approval, err := s.repo.CreateApproval(ctx, CreateApprovalInput{
		RequestID:   requestID,
		Level:       req.Level,
		Status:      req.Status,
		ApproverID:  &approverID,
		DelegatedTo: req.DelegatedTo,
		Comments:    req.Comments,
	})
	if err != nil {
		return models.ResearchApproval{}, err
	}
	return approval, s.afterApprovalChange(ctx, claims, request, approval)
}

func (s *Service) UpdateApproval(ctx context.Context, claims *auth.Claims, approvalID uuid.UUID, upd models.UpdateApprovalRequest) (models.ResearchApproval, error) {
	approval, err := s.repo.GetApproval(ctx, approvalID)
	if err != nil {
		return models.ResearchApproval{}, err
	}
	if !canUpdateApproval(claims, approval) {
		return models.ResearchApproval{}, apperr.Unauthorized("only the original approver may update this approval")
	}

	fields := map[string]interface{}{}
	if upd.Status != nil {
		if !validApprovalStatus(*upd.Status) {
			return models.ResearchApproval{}, apperr.BadRequest("unknown approval status %q", *upd.Status)
		}
		fields["status"] = *upd.Status
		if *upd.Status == models.ApprovalStatusApproved {
			now := s.nowFunc().UTC()
			fields["approved_at"] = &now
		}
	}
	if upd.Comments != nil {
		fields["comments"] = *upd.Comments
	}
	if upd.DelegatedTo != nil {
		fields["delegated_to"] = upd.DelegatedTo
	}
	if len(fields) == 0 {
		return approval, nil
	}

	if err := s.repo.UpdateApproval(ctx, approvalID, fields); err != nil {
		return models.ResearchApproval{}, err
	}
	approval, err = s.repo.GetApproval(ctx, approvalID)
	if err != nil {
		return models.ResearchApproval{}, err
	}

	request, err := s.repo.GetRequest(ctx, approval.RequestID)
	if err != nil {
		return models.ResearchApproval{}, err
	}
	return approval, s.afterApprovalChange(ctx, claims, request, approval)
}

func (s *Service) ListApprovals(ctx context.Context, requestID uuid.UUID) ([]models.ResearchApproval, error) {
	return s.repo.ListApprovals(ctx, requestID)
}

// afterApprovalChange recomputes the request's aggregate status from the
// full approval set and notifies the requester of the decision.
func (s *Service) afterApprovalChange(ctx context.Context, claims *auth.Claims, request models.ResearchRequest, approval models.ResearchApproval) error {
	collaborators, err := s.repo.CountCollaborations(ctx, request.ID)
	if err != nil {
		return err
	}
	approvals, err := s.repo.ListApprovals(ctx, request.ID)
	if err != nil {
		return err
	}

	required := DetermineRequiredApprovalLevels(request, collaborators)
	status := AggregateRequestStatus(required, approvals)
	if status != request.Status {
		if err := s.repo.UpdateRequestStatus(ctx, request.ID, status); err != nil {
			return err
		}
	}

	s.audit.RecordEvent(ctx, claims.UserID.String(), "approval_recorded", "research_approval", approval.ID.String(),
		map[string]interface{}{
			"request_id": request.ID.String(),
			"level":      approval.Level,
			"status":     approval.Status,
		})
	s.notifyUser(ctx, request.CreatedBy, "Research request approval update", "approval_decision",
		map[string]interface{}{
			"request_id":     request.ID.String(),
			"level":          approval.Level,
			"status":         approval.Status,
			"request_status": status,
		})
	return nil
}

// Collaborations

func (s *Service) CreateCollaboration(ctx context.Context, claims *auth.Claims, requestID uuid.UUID, req models.CreateCollaborationRequest) (models.ResearchCollaboration, error) {
	if req.CollaboratorID == uuid.Nil {
		return models.ResearchCollaboration{}, apperr.BadRequest("collaborator_id is required")
	}
	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return models.ResearchCollaboration{}, err
	}
	if request.CreatedBy != claims.UserID && request.PrincipalInvestigator != claims.UserID &&
		!auth.HasPermission(claims.Permissions, auth.PermManageResearch) {
		return models.ResearchCollaboration{}, apperr.Unauthorized("only the creator or PI may invite collaborators")
	}

	collaboration, err := s.repo.CreateCollaboration(ctx, CreateCollaborationInput{
		RequestID:      requestID,
		CollaboratorID: req.CollaboratorID,
		InvitedBy:      claims.UserID,
		Role:           req.Role,
	})
	if err != nil {
		return models.ResearchCollaboration{}, err
	}

	s.audit.RecordEvent(ctx, claims.UserID.String(), "collaboration_invited", "research_collaboration", collaboration.ID.String(),
		map[string]interface{}{"request_id": requestID.String(), "collaborator_id": req.CollaboratorID.String()})
	s.notifyUser(ctx, req.CollaboratorID, "Research collaboration invitation", "collaboration_invitation",
		map[string]interface{}{"request_id": requestID.String(), "title": request.Title})
	return collaboration, nil
}

func (s *Service) UpdateCollaborationStatus(ctx context.Context, claims *auth.Claims, collaborationID uuid.UUID, status string) (models.ResearchCollaboration, error) {
	if !validCollaborationStatus(status) {
		return models.ResearchCollaboration{}, apperr.BadRequest("unknown collaboration status %q", status)
	}

	collaboration, err := s.repo.GetCollaboration(ctx, collaborationID)
	if err != nil {
		return models.ResearchCollaboration{}, err
	}
	if err := canUpdateCollaboration(claims.UserID, collaboration); err != nil {
		return models.ResearchCollaboration{}, err
	}

	fields := collaborationStatusFields(status, s.nowFunc().UTC())
	if err := s.repo.UpdateCollaboration(ctx, collaborationID, fields); err != nil {
		return models.ResearchCollaboration{}, err
	}

	s.audit.RecordEvent(ctx, claims.UserID.String(), "collaboration_status_updated", "research_collaboration", collaborationID.String(),
		map[string]interface{}{"status": status})
	return s.repo.GetCollaboration(ctx, collaborationID)
}

func (s *Service) ListCollaborations(ctx context.Context, requestID uuid.UUID) ([]models.ResearchCollaboration, error) {
	return s.repo.ListCollaborations(ctx, requestID)
}

// Data-access sessions

func (s *Service) OpenSession(ctx context.Context, claims *auth.Claims, requestID uuid.UUID, accessLevel string) (models.DataAccessSession, error) {
	if accessLevel == "" {
		accessLevel = models.AccessLevelStandard
	}
	if !validAccessLevel(accessLevel) {
		return models.DataAccessSession{}, apperr.BadRequest("unknown access level %q", accessLevel)
	}
	if accessLevel == models.AccessLevelFullAccess && !auth.HasPermission(claims.Permissions, auth.PermFullDataAccess) {
		return models.DataAccessSession{}, apperr.Forbidden("caller lacks %s", auth.PermFullDataAccess)
	}

	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return models.DataAccessSession{}, err
	}

	approved, err := s.repo.HasApprovedApproval(ctx, requestID)
	if err != nil {
		return models.DataAccessSession{}, err
	}
	if !approved {
		return models.DataAccessSession{}, apperr.Conflict("request has no approved approvals")
	}

	if request.CreatedBy != claims.UserID && request.PrincipalInvestigator != claims.UserID {
		isCollaborator, err := s.repo.IsAcceptedCollaborator(ctx, requestID, claims.UserID)
		if err != nil {
			return models.DataAccessSession{}, err
		}
		if !isCollaborator {
			return models.DataAccessSession{}, apperr.Unauthorized("caller is not the PI, creator, or an accepted collaborator")
		}
	}

	session, err := s.repo.CreateSession(ctx, CreateSessionInput{
		RequestID:   requestID,
		UserID:      claims.UserID,
		AccessLevel: accessLevel,
	})
	if err != nil {
		return models.DataAccessSession{}, err
	}

	s.audit.RecordEvent(ctx, claims.UserID.String(), "session_opened", "data_access_session", session.ID.String(),
		map[string]interface{}{"request_id": requestID.String(), "access_level": accessLevel})
	return session, nil
}

// CloseSession ends an open session exactly once, computing its duration and
// compliance classification. Closed sessions are immutable.
func (s *Service) CloseSession(ctx context.Context, claims *auth.Claims, sessionID uuid.UUID, req models.CloseSessionRequest) (models.DataAccessSession, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return models.DataAccessSession{}, err
	}
	if session.EndTime != nil {
		return models.DataAccessSession{}, apperr.Conflict("session already closed")
	}
	if session.UserID != claims.UserID && !auth.HasPermission(claims.Permissions, auth.PermAdminAll) {
		return models.DataAccessSession{}, apperr.Unauthorized("only the session owner may close it")
	}
	if req.AccessCount < 0 {
		return models.DataAccessSession{}, apperr.BadRequest("access count must not be negative")
	}

	endTime := s.nowFunc().UTC()
	duration := endTime.Sub(session.StartTime)
	result := PerformComplianceCheck(req.AccessCount, duration, req.DataAccessed, s.rules)

	if err := s.repo.CloseSession(ctx, sessionID, CloseSessionInput{
		EndTime:          endTime,
		DurationMinutes:  duration.Minutes(),
		DataAccessed:     req.DataAccessed,
		QueriesExecuted:  req.QueriesExecuted,
		AccessCount:      req.AccessCount,
		ComplianceStatus: result.Status,
		ViolationReason:  result.Reason,
	}); err != nil {
		return models.DataAccessSession{}, err
	}

	if result.Status != models.ComplianceStatusCompliant {
		logger.Log.WithFields(map[string]interface{}{
			"session_id": sessionID.String(),
			"request_id": session.RequestID.String(),
			"status":     result.Status,
			"reason":     result.Reason,
		}).Warn("data-access session flagged by compliance check")
		s.audit.RecordEvent(ctx, claims.UserID.String(), "compliance_flag", "data_access_session", sessionID.String(),
			map[string]interface{}{"status": result.Status, "reason": result.Reason})
	}

	return s.repo.GetSession(ctx, sessionID)
}

func (s *Service) ListSessions(ctx context.Context, requestID uuid.UUID, limit int) ([]models.DataAccessSession, error) {
	return s.repo.ListSessions(ctx, requestID, limit)
}

// Publications & impact

func (s *Service) CreatePublication(ctx context.Context, claims *auth.Claims, requestID uuid.UUID, req models.CreatePublicationRequest) (models.Publication, error) {
	if req.Title == "" {
		return models.Publication{}, apperr.BadRequest("title is required")
	}
	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return models.Publication{}, err
	}
	if request.CreatedBy != claims.UserID && request.PrincipalInvestigator != claims.UserID &&
		!auth.HasPermission(claims.Permissions, auth.PermManageResearch) {
		return models.Publication{}, apperr.Unauthorized("only the creator or PI may record publications")
	}

	publication, err := s.repo.CreatePublication(ctx, requestID, req)
	if err != nil {
		return models.Publication{}, err
	}

	// Research-impact dashboards are derived from publications; drop them so
	// the next read recomputes.
	if s.cache != nil {
		s.cache.DeleteByPattern(ctx, "research:impact:*")
	}

	s.audit.RecordEvent(ctx, claims.UserID.String(), "publication_recorded", "publication", publication.ID.String(),
		map[string]interface{}{"request_id": requestID.String(), "title": publication.Title})
	return publication, nil
}

func (s *Service) ListPublications(ctx context.Context, requestID uuid.UUID) ([]models.Publication, error) {
	return s.repo.ListPublications(ctx, requestID)
}

func (s *Service) RecordImpactMetric(ctx context.Context, claims *auth.Claims, requestID uuid.UUID, metricType string, value float64) (models.ImpactMetric, error) {
	if metricType == "" {
		return models.ImpactMetric{}, apperr.BadRequest("metric_type is required")
	}
	if _, err := s.repo.GetRequest(ctx, requestID); err != nil {
		return models.ImpactMetric{}, err
	}
	metric, err := s.repo.RecordImpactMetric(ctx, requestID, metricType, value)
	if err != nil {
		return models.ImpactMetric{}, err
	}
	if s.cache != nil {
		s.cache.DeleteByPattern(ctx, "research:impact:*")
	}
	s.audit.RecordEvent(ctx, claims.UserID.String(), "impact_metric_recorded", "impact_metric", metric.ID.String(),
		map[string]interface{}{"request_id": requestID.String(), "metric_type": metricType})
	return metric, nil
}

func (s *Service) notifyUser(ctx context.Context, userID uuid.UUID, subject, template string, data map[string]interface{}) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.String()).Warn("notification recipient lookup failed")
		return
	}
	s.notifier.Send(ctx, notify.Notification{
		To:       user.Email,
		Subject:  subject,
		Template: template,
		Data:     data,
	})
}

// Pure validators, kept free of repository state.

func canUpdateApproval(claims *auth.Claims, approval models.ResearchApproval) bool {
	if auth.HasPermission(claims.Permissions, auth.PermAdminAll) {
		return true
	}
	return approval.ApproverID != nil && *approval.ApproverID == claims.UserID
}

// canUpdateCollaboration allows only the invited collaborator to transition
// their own row.
func canUpdateCollaboration(userID uuid.UUID, collaboration models.ResearchCollaboration) error {
	if collaboration.CollaboratorID != userID {
		return apperr.Unauthorized("only the invited collaborator may update this invitation")
	}
	return nil
}

// collaborationStatusFields stamps acceptance/decline times. Transitions are
// otherwise unguarded against the prior state, matching the workflow's
// tolerant behavior.
func collaborationStatusFields(status string, now time.Time) map[string]interface{} {
	fields := map[string]interface{}{"status": status}
	switch status {
	case models.CollaborationStatusAccepted:
		fields["accepted_at"] = &now
	case models.CollaborationStatusDeclined:
		fields["declined_at"] = &now
	}
	return fields
}

func validApprovalLevel(level string) bool {
	for _, known := range approvalLevelOrder {
		if level == known {
			return true
		}
	}
	return false
}

func validApprovalStatus(status string) bool {
	switch status {
	case models.ApprovalStatusPending, models.ApprovalStatusApproved, models.ApprovalStatusRejected:
		return true
	}
	return false
}

func validCollaborationStatus(status string) bool {
	switch status {
	case models.CollaborationStatusPending, models.CollaborationStatusAccepted,
		models.CollaborationStatusDeclined, models.CollaborationStatusActive:
		return true
	}
	return false
}

func validAccessLevel(level string) bool {
	switch level {
	case models.AccessLevelAggregateOnly, models.AccessLevelStandard, models.AccessLevelFullAccess:
		return true
	}
	return false
}
