package cache

import (
	"fmt"
	"sort"
	"strings"
)

// Key layout is colon-delimited ASCII. Dashboard keys embed "center:{id}" so
// center-scoped invalidation patterns can match them.
const (
	prefixDashboard  = "dashboard"
	prefixAnalytics  = "analytics"
	prefixCenter     = "center"
	prefixPatient    = "patient"
	prefixPopulation = "population"
	prefixImpact     = "research:impact"
	prefixScheduler  = "scheduler:failures"
)

func ExecutiveDashboardKey(centerID, timeRange string) string {
	if centerID == "" {
		return fmt.Sprintf("%s:executive_dashboard:national:%s", prefixDashboard, timeRange)
	}
	return fmt.Sprintf("%s:executive_dashboard:center:%s:%s", prefixDashboard, centerID, timeRange)
}

func AnalyticsQueryKey(name string, params map[string]string) string {
	if len(params) == 0 {
		return fmt.Sprintf("%s:query:%s:all", prefixAnalytics, name)
	}
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k+"="+v)
	}
	if len(keys) == 0 {
		return fmt.Sprintf("%s:query:%s:all", prefixAnalytics, name)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%s:query:%s:%s", prefixAnalytics, name, strings.Join(keys, ":"))
}

func CenterMetricsKey(centerID string) string {
	return fmt.Sprintf("%s:%s:metrics", prefixCenter, centerID)
}

func PredictiveModelKey(model, scope string) string {
	return fmt.Sprintf("%s:predictive:%s:%s", prefixAnalytics, model, scope)
}

func ResearchImpactKey(scope string) string {
	return fmt.Sprintf("%s:%s", prefixImpact, scope)
}

func GeographicKey(params map[string]string) string {
	return AnalyticsQueryKey("geographic", params)
}

func SchedulerFailureKey(job string) string {
	return fmt.Sprintf("%s:%s", prefixScheduler, job)
}

func CenterPatterns(centerID string) []string {
	return []string{
		fmt.Sprintf("%s:%s*", prefixCenter, centerID),
		fmt.Sprintf("%s:*center:%s*", prefixDashboard, centerID),
	}
}

func PatientPatterns(patientID string) []string {
	return []string{
		fmt.Sprintf("%s:%s*", prefixPatient, patientID),
		fmt.Sprintf("%s:*patient:%s*", prefixAnalytics, patientID),
	}
}

func AnalyticsPatterns() []string {
	return []string{
		prefixAnalytics + ":*",
		prefixDashboard + ":*",
		prefixPopulation + ":*",
		prefixImpact + ":*",
	}
}
