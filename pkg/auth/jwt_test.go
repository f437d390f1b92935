package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oncentra/registry/pkg/common/models"
)

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager("unit-test-secret-0123456789", "oncentra-registry", "registry-api", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func testUser() models.User {
	return models.User{
		ID:       uuid.New(),
		CenterID: uuid.New(),
		Email:    "dr.ada@example.org",
		Role:     "researcher",
	}
}

func TestJWTRoundTrip(t *testing.T) {
	m := newTestManager(t)
	user := testUser()
	perms := []string{PermViewAnalytics}

	token, err := m.IssueToken(user, perms, true)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := m.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != user.ID {
		t.Errorf("user id: got %s, want %s", claims.UserID, user.ID)
	}
	if claims.CenterID != user.CenterID {
		t.Errorf("center id: got %s, want %s", claims.CenterID, user.CenterID)
	}
	if claims.Role != "researcher" || claims.Email != user.Email {
		t.Errorf("unexpected claims %+v", claims)
	}
	if len(claims.Permissions) != 1 || claims.Permissions[0] != PermViewAnalytics {
		t.Errorf("permissions: got %v", claims.Permissions)
	}
	if !claims.MFAVerified {
		t.Error("mfa flag lost")
	}
}

func TestJWTRejectsTampering(t *testing.T) {
	m := newTestManager(t)
	token, err := m.IssueToken(testUser(), nil, false)
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := m.ValidateToken(context.Background(), tampered); err == nil {
		t.Error("tampered payload accepted")
	}

	if _, err := m.ValidateToken(context.Background(), "not.a.token"); err == nil {
		t.Error("garbage token accepted")
	}
	if _, err := m.ValidateToken(context.Background(), ""); err == nil {
		t.Error("empty token accepted")
	}
}

func TestJWTRejectsForeignIssuer(t *testing.T) {
	m := newTestManager(t)
	other, err := NewJWTManager("unit-test-secret-0123456789", "someone-else", "registry-api", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	token, err := other.IssueToken(testUser(), nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ValidateToken(context.Background(), token); err == nil {
		t.Error("token from a foreign issuer accepted")
	}
}

func TestJWTExpiry(t *testing.T) {
	m := newTestManager(t)
	issued := time.Now()
	m.nowFunc = func() time.Time { return issued }

	token, err := m.IssueToken(testUser(), nil, false)
	if err != nil {
		t.Fatal(err)
	}

	m.nowFunc = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := m.ValidateToken(context.Background(), token); err == nil {
		t.Error("expired token accepted")
	}

	m.nowFunc = func() time.Time { return issued.Add(30 * time.Minute) }
	if _, err := m.ValidateToken(context.Background(), token); err != nil {
		t.Errorf("valid token rejected: %v", err)
	}
}

func TestNewJWTManagerRejectsWeakSecret(t *testing.T) {
	if _, err := NewJWTManager("short", "iss", "aud", time.Hour); err == nil {
		t.Error("weak secret accepted")
	}
}
