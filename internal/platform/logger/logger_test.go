package logger

import "testing"

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"password", "hunter2",
		"invitation_code", "AB12CD",
		"email", "a@b.org",
		"lesson_id", "l-1",
		"dangling",
	})
	if len(out) != 9 {
		t.Fatalf("expected 9 values, got %d", len(out))
	}
	if out[1] != "[REDACTED]" || out[3] != "[REDACTED]" {
		t.Fatalf("secrets not redacted: %v", out)
	}
	if s, _ := out[5].(string); len(s) != len("hash:")+12 {
		t.Fatalf("email not hashed: %v", out[5])
	}
	if out[7] != "l-1" {
		t.Fatalf("plain value changed: %v", out[7])
	}
	if out[8] != "dangling" {
		t.Fatalf("dangling key dropped: %v", out)
	}
}

func TestSanitizeValueJWT(t *testing.T) {
	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"
	if got := sanitizeValue("note", jwt); got != "[REDACTED]" {
		t.Fatalf("jwt-looking value not redacted: %v", got)
	}
}
