package research

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oncentra/registry/pkg/auth"
	"github.com/oncentra/registry/pkg/common/apperr"
	"github.com/oncentra/registry/pkg/common/models"
)

func TestCanUpdateCollaboration(t *testing.T) {
	invitee := uuid.New()
	collaboration := models.ResearchCollaboration{
		ID:             uuid.New(),
		CollaboratorID: invitee,
		InvitedBy:      uuid.New(),
		Status:         models.CollaborationStatusPending,
	}

	if err := canUpdateCollaboration(invitee, collaboration); err != nil {
		t.Errorf("invitee should be allowed, got %v", err)
	}

	err := canUpdateCollaboration(uuid.New(), collaboration)
	if err == nil {
		t.Fatal("non-invitee should be rejected")
	}
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("got kind %v, want unauthorized", apperr.KindOf(err))
	}

	// The inviter is not the invitee; they don't get to accept on the
	// collaborator's behalf.
	if err := canUpdateCollaboration(collaboration.InvitedBy, collaboration); err == nil {
		t.Error("inviter should be rejected")
	}
}

func TestCollaborationStatusFields(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	fields := collaborationStatusFields(models.CollaborationStatusAccepted, now)
	if fields["status"] != models.CollaborationStatusAccepted {
		t.Errorf("status: got %v", fields["status"])
	}
	acceptedAt, ok := fields["accepted_at"].(*time.Time)
	if !ok || !acceptedAt.Equal(now) {
		t.Errorf("accepted_at not stamped, got %v", fields["accepted_at"])
	}
	if _, ok := fields["declined_at"]; ok {
		t.Error("declined_at should not be set on acceptance")
	}

	fields = collaborationStatusFields(models.CollaborationStatusDeclined, now)
	declinedAt, ok := fields["declined_at"].(*time.Time)
	if !ok || !declinedAt.Equal(now) {
		t.Errorf("declined_at not stamped, got %v", fields["declined_at"])
	}

	fields = collaborationStatusFields(models.CollaborationStatusActive, now)
	if len(fields) != 1 {
		t.Errorf("activation should only set status, got %v", fields)
	}
}

func TestCanUpdateApproval(t *testing.T) {
	approver := uuid.New()
	approval := models.ResearchApproval{ApproverID: &approver}

	ownerClaims := &auth.Claims{UserID: approver}
	if !canUpdateApproval(ownerClaims, approval) {
		t.Error("original approver should be allowed")
	}

	otherClaims := &auth.Claims{UserID: uuid.New()}
	if canUpdateApproval(otherClaims, approval) {
		t.Error("other users should be rejected")
	}

	adminClaims := &auth.Claims{UserID: uuid.New(), Permissions: []string{auth.PermAdminAll}}
	if !canUpdateApproval(adminClaims, approval) {
		t.Error("admin should be allowed")
	}

	if canUpdateApproval(otherClaims, models.ResearchApproval{}) {
		t.Error("undecided approval without approver should reject non-admins")
	}
}

func TestValidators(t *testing.T) {
	for _, level := range []string{
		models.ApprovalLevelCenterDirector,
		models.ApprovalLevelDataSteward,
		models.ApprovalLevelPrivacyOfficer,
		models.ApprovalLevelEthicsCommittee,
		models.ApprovalLevelNationalAdmin,
	} {
		if !validApprovalLevel(level) {
			t.Errorf("level %s should be valid", level)
		}
	}
	if validApprovalLevel("JANITOR") {
		t.Error("unknown level accepted")
	}

	if !validApprovalStatus(models.ApprovalStatusApproved) || validApprovalStatus("MAYBE") {
		t.Error("approval status validation broken")
	}
	if !validCollaborationStatus(models.CollaborationStatusAccepted) || validCollaborationStatus("GHOSTED") {
		t.Error("collaboration status validation broken")
	}
	if !validAccessLevel(models.AccessLevelFullAccess) || validAccessLevel("ROOT") {
		t.Error("access level validation broken")
	}
}
