package research

import (
	"testing"
	"time"

	"github.com/oncentra/registry/pkg/common/models"
)

func TestPerformComplianceCheck(t *testing.T) {
	rules := DefaultComplianceRules()

	tests := []struct {
		name         string
		accessCount  int
		duration     time.Duration
		dataAccessed []string
		wantStatus   string
		wantReason   string
	}{
		{
			name:         "normal session is compliant",
			accessCount:  100,
			duration:     2 * time.Hour,
			dataAccessed: []string{"diagnosis", "stage"},
			wantStatus:   models.ComplianceStatusCompliant,
		},
		{
			name:        "high volume triggers a warning",
			accessCount: 1001,
			duration:    time.Hour,
			wantStatus:  models.ComplianceStatusWarning,
			wantReason:  "High volume data access detected",
		},
		{
			name:        "volume at the boundary is compliant",
			accessCount: 1000,
			duration:    time.Hour,
			wantStatus:  models.ComplianceStatusCompliant,
		},
		{
			name:        "extended duration triggers a warning",
			accessCount: 10,
			duration:    481 * time.Minute,
			wantStatus:  models.ComplianceStatusWarning,
			wantReason:  "Extended session duration detected",
		},
		{
			name:         "prohibited field marker is a violation",
			accessCount:  10,
			duration:     time.Hour,
			dataAccessed: []string{"patient_SSN"},
			wantStatus:   models.ComplianceStatusViolation,
			wantReason:   "Sensitive data field accessed: SSN",
		},
		{
			name:         "violation outranks warnings",
			accessCount:  5000,
			duration:     600 * time.Minute,
			dataAccessed: []string{"SSN"},
			wantStatus:   models.ComplianceStatusViolation,
			wantReason:   "Sensitive data field accessed: SSN",
		},
		{
			name:        "duration warning outranks volume warning",
			accessCount: 5000,
			duration:    600 * time.Minute,
			wantStatus:  models.ComplianceStatusWarning,
			wantReason:  "Extended session duration detected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PerformComplianceCheck(tt.accessCount, tt.duration, tt.dataAccessed, rules)
			if got.Status != tt.wantStatus {
				t.Errorf("status: got %s, want %s", got.Status, tt.wantStatus)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("reason: got %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestPerformComplianceCheckCustomRules(t *testing.T) {
	rules := ComplianceRules{
		MaxAccessCount:    10,
		MaxSessionMinutes: 30,
		ProhibitedMarkers: []string{"NationalID"},
	}

	got := PerformComplianceCheck(11, 10*time.Minute, nil, rules)
	if got.Status != models.ComplianceStatusWarning {
		t.Errorf("got %s, want %s", got.Status, models.ComplianceStatusWarning)
	}

	got = PerformComplianceCheck(1, time.Minute, []string{"NationalID_number"}, rules)
	if got.Status != models.ComplianceStatusViolation {
		t.Errorf("got %s, want %s", got.Status, models.ComplianceStatusViolation)
	}
	if got.Reason != "Sensitive data field accessed: NationalID" {
		t.Errorf("unexpected reason %q", got.Reason)
	}
}

func TestDefaultComplianceRules(t *testing.T) {
	rules := DefaultComplianceRules()
	if rules.MaxAccessCount != 1000 {
		t.Errorf("max access count: got %d, want 1000", rules.MaxAccessCount)
	}
	if rules.MaxSessionMinutes != 480 {
		t.Errorf("max session minutes: got %v, want 480", rules.MaxSessionMinutes)
	}
	if len(rules.ProhibitedMarkers) != 1 || rules.ProhibitedMarkers[0] != "SSN" {
		t.Errorf("unexpected prohibited markers %v", rules.ProhibitedMarkers)
	}
}
