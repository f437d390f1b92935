package cache

import (
	"context"
	"os"
	"testing"

	"github.com/oncentra/registry/pkg/common/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// Every operation must degrade to a miss or no-op without a backend; the
// service is constructed with a nil client to simulate Redis being down.
func TestServiceDegradesWithoutBackend(t *testing.T) {
	ctx := context.Background()
	svc := New(nil)

	var dest map[string]interface{}
	if svc.Get(ctx, "any:key", &dest) {
		t.Error("Get should miss without a backend")
	}
	if dest != nil {
		t.Errorf("dest should be untouched, got %v", dest)
	}

	// None of these may panic.
	svc.Set(ctx, "any:key", map[string]string{"a": "b"}, 0)
	svc.Delete(ctx, "any:key")
	svc.AddToSortedSet(ctx, "any:zset", "member", 1)

	if got := svc.DeleteByPattern(ctx, "any:*"); got != 0 {
		t.Errorf("DeleteByPattern: got %d, want 0", got)
	}
	if got := svc.Increment(ctx, "any:counter"); got != 0 {
		t.Errorf("Increment: got %d, want 0", got)
	}
	if got := svc.GetTopFromSortedSet(ctx, "any:zset", 5); got != nil {
		t.Errorf("GetTopFromSortedSet: got %v, want nil", got)
	}

	var dashboard map[string]interface{}
	if svc.GetDashboardData(ctx, "abc", "5y", &dashboard) {
		t.Error("GetDashboardData should miss without a backend")
	}
	svc.CacheDashboardData(ctx, "abc", "5y", map[string]int{"cases": 1})

	if got := svc.InvalidateAllAnalyticsCache(ctx); got != 0 {
		t.Errorf("InvalidateAllAnalyticsCache: got %d, want 0", got)
	}
	if got := svc.InvalidateCenterCache(ctx, "abc"); got != 0 {
		t.Errorf("InvalidateCenterCache: got %d, want 0", got)
	}
}

type recordedEvent struct {
	action   string
	entity   string
	entityID string
}

type fakeAudit struct {
	events []recordedEvent
}

func (f *fakeAudit) RecordEvent(_ context.Context, _, action, entity, entityID string, _ map[string]interface{}) {
	f.events = append(f.events, recordedEvent{action: action, entity: entity, entityID: entityID})
}

func TestInvalidationRecordsAuditEvent(t *testing.T) {
	trail := &fakeAudit{}
	svc := New(nil, WithAudit(trail))

	svc.InvalidateCenterCache(context.Background(), "c-7")
	svc.InvalidatePatientCache(context.Background(), "p-9")

	if len(trail.events) != 2 {
		t.Fatalf("got %d audit events, want 2", len(trail.events))
	}
	if trail.events[0].action != "cache_invalidated" || trail.events[0].entity != "center" || trail.events[0].entityID != "c-7" {
		t.Errorf("unexpected first event %+v", trail.events[0])
	}
	if trail.events[1].entity != "patient" || trail.events[1].entityID != "p-9" {
		t.Errorf("unexpected second event %+v", trail.events[1])
	}
}
