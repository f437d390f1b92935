package auth

import (
	"testing"

	"github.com/oncentra/registry/pkg/common/models"
)

func TestHasPermission(t *testing.T) {
	perms := []string{PermViewAnalytics, PermManageResearch}

	if !HasPermission(perms, PermViewAnalytics) {
		t.Error("direct permission denied")
	}
	if HasPermission(perms, PermFullDataAccess) {
		t.Error("missing permission granted")
	}
	if !HasPermission([]string{PermAdminAll}, PermFullDataAccess) {
		t.Error("admin escape hatch broken")
	}
	if HasPermission(nil, PermViewAnalytics) {
		t.Error("empty set granted")
	}
}

func TestApprovalPermission(t *testing.T) {
	if got := ApprovalPermission(models.ApprovalLevelCenterDirector); got != "APPROVE_CENTER_DIRECTOR" {
		t.Errorf("got %q", got)
	}
}

func TestDefaultRoles(t *testing.T) {
	roles := DefaultRoles()

	admin := roles.PermissionsFor("national_admin")
	if !HasPermission(admin, PermInvalidateCache) {
		t.Error("national admin should pass every check")
	}

	director := roles.PermissionsFor("center_director")
	if !HasPermission(director, ApprovalPermission(models.ApprovalLevelCenterDirector)) {
		t.Error("center director cannot approve at their own level")
	}
	if HasPermission(director, PermFullDataAccess) {
		t.Error("center director should not have full data access")
	}

	steward := roles.PermissionsFor("data_steward")
	if !HasPermission(steward, PermFullDataAccess) {
		t.Error("data steward should have full data access")
	}

	if got := roles.PermissionsFor("unknown_role"); got != nil {
		t.Errorf("unknown role should have no permissions, got %v", got)
	}

	researcher := roles.PermissionsFor("researcher")
	for _, level := range []string{
		models.ApprovalLevelCenterDirector,
		models.ApprovalLevelDataSteward,
		models.ApprovalLevelPrivacyOfficer,
		models.ApprovalLevelEthicsCommittee,
		models.ApprovalLevelNationalAdmin,
	} {
		if HasPermission(researcher, ApprovalPermission(level)) {
			t.Errorf("researcher should not approve at %s", level)
		}
	}
}
