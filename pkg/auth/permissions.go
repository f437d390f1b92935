package auth

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Permission codes checked by route guards and domain services. ADMIN_ALL is
// the escape hatch that satisfies any check.
const (
	PermAdminAll        = "ADMIN_ALL"
	PermManageUsers     = "MANAGE_USERS"
	PermManageResearch  = "MANAGE_RESEARCH"
	PermViewAnalytics   = "VIEW_ANALYTICS"
	PermFullDataAccess  = "FULL_DATA_ACCESS"
	PermInvalidateCache = "INVALIDATE_CACHE"
)

// ApprovalPermission builds the code guarding approval creation at a level,
// e.g. APPROVE_CENTER_DIRECTOR.
func ApprovalPermission(level string) string {
	return "APPROVE_" + level
}

type RoleConfig struct {
	Roles map[string][]string `yaml:"roles" json:"roles"`
}

func LoadRoles(path string) (RoleConfig, error) {
	if path == "" {
		return DefaultRoles(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultRoles(), err
	}

	var cfg RoleConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return RoleConfig{}, err
	}

	if len(cfg.Roles) == 0 {
		return RoleConfig{}, errors.New("no roles configured")
	}

	return cfg, nil
}

func DefaultRoles() RoleConfig {
	return RoleConfig{Roles: map[string][]string{
		"national_admin": {PermAdminAll},
		"center_director": {
			PermManageUsers,
			PermManageResearch,
			PermViewAnalytics,
			ApprovalPermission("CENTER_DIRECTOR"),
		},
		"data_steward": {
			PermViewAnalytics,
			PermFullDataAccess,
			ApprovalPermission("DATA_STEWARD"),
		},
		"privacy_officer": {
			PermViewAnalytics,
			ApprovalPermission("PRIVACY_OFFICER"),
		},
		"ethics_committee": {
			ApprovalPermission("ETHICS_COMMITTEE"),
		},
		"researcher": {
			PermViewAnalytics,
		},
	}}
}

func (c RoleConfig) PermissionsFor(role string) []string {
	return c.Roles[role]
}

// HasPermission reports whether the permission set carries the code or the
// admin escape hatch.
func HasPermission(permissions []string, code string) bool {
	for _, p := range permissions {
		if p == PermAdminAll || p == code {
			return true
		}
	}
	return false
}
