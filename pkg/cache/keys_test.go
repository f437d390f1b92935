package cache

import (
	"path"
	"testing"
)

func TestExecutiveDashboardKey(t *testing.T) {
	if got := ExecutiveDashboardKey("", "5y"); got != "dashboard:executive_dashboard:national:5y" {
		t.Errorf("national key: got %q", got)
	}
	if got := ExecutiveDashboardKey("abc", "1y"); got != "dashboard:executive_dashboard:center:abc:1y" {
		t.Errorf("center key: got %q", got)
	}
}

func TestAnalyticsQueryKey(t *testing.T) {
	// Parameter order must not change the key.
	a := AnalyticsQueryKey("aggregates", map[string]string{"sex": "F", "cancer_type": "breast"})
	b := AnalyticsQueryKey("aggregates", map[string]string{"cancer_type": "breast", "sex": "F"})
	if a != b {
		t.Errorf("keys differ for same params: %q vs %q", a, b)
	}
	if a != "analytics:query:aggregates:cancer_type=breast:sex=F" {
		t.Errorf("unexpected key %q", a)
	}

	if got := AnalyticsQueryKey("aggregates", nil); got != "analytics:query:aggregates:all" {
		t.Errorf("empty params: got %q", got)
	}
	if got := AnalyticsQueryKey("aggregates", map[string]string{"sex": ""}); got != "analytics:query:aggregates:all" {
		t.Errorf("blank-valued params: got %q", got)
	}
}

func TestCenterPatternsMatchDashboardKeys(t *testing.T) {
	patterns := CenterPatterns("c-42")
	if len(patterns) != 2 {
		t.Fatalf("got %d patterns, want 2", len(patterns))
	}

	keys := []string{
		CenterMetricsKey("c-42"),
		ExecutiveDashboardKey("c-42", "5y"),
	}
	for _, key := range keys {
		matched := false
		for _, pattern := range patterns {
			if ok, _ := path.Match(pattern, key); ok {
				matched = true
			}
		}
		if !matched {
			t.Errorf("key %q not covered by center invalidation patterns %v", key, patterns)
		}
	}

	// Another center's dashboard must survive.
	other := ExecutiveDashboardKey("c-43", "5y")
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, other); ok {
			t.Errorf("pattern %q wrongly matches %q", pattern, other)
		}
	}
}

func TestAnalyticsPatternsCoverage(t *testing.T) {
	patterns := AnalyticsPatterns()
	if len(patterns) != 4 {
		t.Fatalf("got %d patterns, want 4", len(patterns))
	}

	keys := []string{
		AnalyticsQueryKey("aggregates", nil),
		ExecutiveDashboardKey("abc", "5y"),
		GeographicKey(map[string]string{"region": "north"}),
		ResearchImpactKey("national"),
		PredictiveModelKey("incidence", "breast:5"),
	}
	for _, key := range keys {
		matched := false
		for _, pattern := range patterns {
			if ok, _ := path.Match(pattern, key); ok {
				matched = true
			}
		}
		if !matched {
			t.Errorf("key %q not covered by analytics invalidation patterns", key)
		}
	}
}

func TestSchedulerFailureKey(t *testing.T) {
	if got := SchedulerFailureKey("dashboard_refresh"); got != "scheduler:failures:dashboard_refresh" {
		t.Errorf("got %q", got)
	}
}
