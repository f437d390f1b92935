package auth

import (
	"encoding/base32"
	"strings"
	"testing"
	"time"
)

// rfcSecret is the shared secret from the RFC 6238 test vectors.
var rfcSecret = base32.StdEncoding.WithPadding(base32.NoPadding).
	EncodeToString([]byte("12345678901234567890"))

func TestTOTPCodeAtKnownVectors(t *testing.T) {
	tests := []struct {
		unix int64
		want string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1111111111, "050471"},
		{1234567890, "005924"},
		{2000000000, "279037"},
	}

	for _, tt := range tests {
		got, err := TOTPCodeAt(rfcSecret, time.Unix(tt.unix, 0))
		if err != nil {
			t.Fatalf("t=%d: %v", tt.unix, err)
		}
		if got != tt.want {
			t.Errorf("t=%d: got %s, want %s", tt.unix, got, tt.want)
		}
	}
}

func TestVerifyTOTP(t *testing.T) {
	at := time.Unix(1111111109, 0)

	if !VerifyTOTP(rfcSecret, "081804", at) {
		t.Error("current code rejected")
	}
	if !VerifyTOTP(rfcSecret, " 081804 ", at) {
		t.Error("whitespace should be tolerated")
	}
	if VerifyTOTP(rfcSecret, "000000", at) {
		t.Error("wrong code accepted")
	}
	if VerifyTOTP(rfcSecret, "0818", at) {
		t.Error("short code accepted")
	}

	// One step of clock skew either way is accepted, two is not.
	previous, _ := TOTPCodeAt(rfcSecret, at.Add(-totpStep))
	if !VerifyTOTP(rfcSecret, previous, at) {
		t.Error("previous step rejected within skew")
	}
	stale, _ := TOTPCodeAt(rfcSecret, at.Add(-2*totpStep))
	if stale != previous && VerifyTOTP(rfcSecret, stale, at) {
		t.Error("code two steps old accepted")
	}
}

func TestGenerateTOTPSecret(t *testing.T) {
	secret, err := GenerateTOTPSecret()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(secret, "=") {
		t.Errorf("secret should be unpadded base32, got %q", secret)
	}

	code, err := TOTPCodeAt(secret, time.Now())
	if err != nil {
		t.Fatalf("generated secret unusable: %v", err)
	}
	if len(code) != totpDigits {
		t.Errorf("code length: got %d, want %d", len(code), totpDigits)
	}

	other, err := GenerateTOTPSecret()
	if err != nil {
		t.Fatal(err)
	}
	if secret == other {
		t.Error("secrets should not repeat")
	}
}

func TestTOTPProvisioningURL(t *testing.T) {
	u := TOTPProvisioningURL("Oncentra Registry", "dr.ada@example.org", rfcSecret)
	if !strings.HasPrefix(u, "otpauth://totp/") {
		t.Errorf("unexpected scheme in %q", u)
	}
	if !strings.Contains(u, "secret="+rfcSecret) {
		t.Errorf("secret missing from %q", u)
	}
	if !strings.Contains(u, "digits=6") || !strings.Contains(u, "period=30") {
		t.Errorf("parameters missing from %q", u)
	}
}
