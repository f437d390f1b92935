package research

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oncentra/registry/pkg/common/models"
	"gopkg.in/yaml.v3"
)

// ComplianceRules holds the heuristic thresholds applied when a data-access
// session closes. This is a risk classification, not a compliance proof.
type ComplianceRules struct {
	MaxAccessCount    int      `yaml:"max_access_count" json:"max_access_count"`
	MaxSessionMinutes float64  `yaml:"max_session_minutes" json:"max_session_minutes"`
	ProhibitedMarkers []string `yaml:"prohibited_markers" json:"prohibited_markers"`
}

func LoadComplianceRules(path string) (ComplianceRules, error) {
	if path == "" {
		return DefaultComplianceRules(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultComplianceRules(), err
	}

	var rules ComplianceRules
	if err := yaml.Unmarshal(content, &rules); err != nil {
		return ComplianceRules{}, err
	}
	if rules.MaxAccessCount <= 0 || rules.MaxSessionMinutes <= 0 {
		return ComplianceRules{}, errors.New("compliance thresholds must be positive")
	}
	if len(rules.ProhibitedMarkers) == 0 {
		rules.ProhibitedMarkers = DefaultComplianceRules().ProhibitedMarkers
	}
	return rules, nil
}

func DefaultComplianceRules() ComplianceRules {
	return ComplianceRules{
		MaxAccessCount:    1000,
		MaxSessionMinutes: 480,
		ProhibitedMarkers: []string{"SSN"},
	}
}

// ComplianceResult carries the classification and the reason of the last
// heuristic that matched.
type ComplianceResult struct {
	Status string
	Reason string
}

// PerformComplianceCheck classifies a closed session. The heuristics are
// evaluated in order and the last match wins: volume, then duration, then
// prohibited field markers.
func PerformComplianceCheck(accessCount int, duration time.Duration, dataAccessed []string, rules ComplianceRules) ComplianceResult {
	result := ComplianceResult{Status: models.ComplianceStatusCompliant}

	if accessCount > rules.MaxAccessCount {
		result = ComplianceResult{
			Status: models.ComplianceStatusWarning,
			Reason: "High volume data access detected",
		}
	}
	if duration.Minutes() > rules.MaxSessionMinutes {
		result = ComplianceResult{
			Status: models.ComplianceStatusWarning,
			Reason: "Extended session duration detected",
		}
	}
	for _, field := range dataAccessed {
		for _, marker := range rules.ProhibitedMarkers {
			if strings.Contains(field, marker) {
				result = ComplianceResult{
					Status: models.ComplianceStatusViolation,
					Reason: "Sensitive data field accessed: " + marker,
				}
			}
		}
	}
	return result
}
