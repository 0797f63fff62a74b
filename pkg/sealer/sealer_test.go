package sealer

import (
	"encoding/base64"
	"strings"
	"testing"
)

var testKey = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

func TestSealOpen(t *testing.T) {
	s, err := New(testKey)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sealed, err := s.Seal("+1 555 0100")
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if strings.Contains(sealed, "555") {
		t.Errorf("sealed value leaks plaintext: %s", sealed)
	}

	again, _ := s.Seal("+1 555 0100")
	if again == sealed {
		t.Error("expected a fresh nonce per seal")
	}

	opened, err := s.Open(sealed)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if opened != "+1 555 0100" {
		t.Errorf("Open() = %q", opened)
	}
}

func TestEmptyValues(t *testing.T) {
	s, _ := New(testKey)

	sealed, err := s.Seal("")
	if err != nil || sealed != "" {
		t.Errorf("Seal(\"\") = %q, %v", sealed, err)
	}
	opened, err := s.Open("")
	if err != nil || opened != "" {
		t.Errorf("Open(\"\") = %q, %v", opened, err)
	}
}

func TestOpenRejectsTampering(t *testing.T) {
	s, _ := New(testKey)
	sealed, _ := s.Seal("secret")

	raw, _ := base64.RawURLEncoding.DecodeString(sealed)
	raw[len(raw)-1] ^= 0xFF
	if _, err := s.Open(base64.RawURLEncoding.EncodeToString(raw)); err == nil {
		t.Error("expected tampered value to fail")
	}

	if _, err := s.Open("!!"); err != ErrMalformed {
		t.Errorf("Open(garbage) error = %v, want ErrMalformed", err)
	}
}

func TestNewRejectsBadKeys(t *testing.T) {
	tests := []string{
		"not-base64!",
		base64.StdEncoding.EncodeToString([]byte("short")),
	}
	for _, key := range tests {
		if _, err := New(key); err == nil {
			t.Errorf("New(%q) expected error", key)
		}
	}
}
