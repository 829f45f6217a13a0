package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestCodec(t *testing.T, ttl time.Duration, opts ...Option) *Codec {
	t.Helper()
	opts = append([]Option{WithQuiet()}, opts...)
	c, err := New("super-secret", ttl, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRejectsEmptySecret(t *testing.T) {
	if _, err := New("", time.Minute); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestNewRejectsTinyTTL(t *testing.T) {
	if _, err := New("s", 99*time.Millisecond); err == nil {
		t.Fatal("expected error for ttl below minimum")
	}
	if _, err := New("s", 100*time.Millisecond); err != nil {
		t.Fatalf("minimum ttl should be accepted: %v", err)
	}
}

func TestCreateAndValidateRoundTrip(t *testing.T) {
	c := newTestCodec(t, time.Minute)

	tok, err := c.Create("hello")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !c.IsValid(tok) {
		t.Fatal("token should be valid")
	}
	v, err := c.Value(tok)
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != "hello" {
		t.Fatalf("value = %q, want %q", v, "hello")
	}
}

func TestCreateGeneratesRandomValue(t *testing.T) {
	c := newTestCodec(t, time.Minute)

	a, err := c.Create("")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := c.Create("")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	va, _ := c.Value(a)
	vb, _ := c.Value(b)
	if va == "" || vb == "" {
		t.Fatal("generated values must not be empty")
	}
	if va == vb {
		t.Fatal("two generated tokens should not share a value")
	}
}

func TestCreateRejectsDelimiterInValue(t *testing.T) {
	c := newTestCodec(t, time.Minute)
	if _, err := c.Create("a.b"); err == nil {
		t.Fatal("expected error for value containing a period")
	}
}

func TestIsValidRejectsGarbage(t *testing.T) {
	c := newTestCodec(t, time.Minute)

	for _, tok := range []string{"", "nodots", "one.two", "a.b.c.d"} {
		if c.IsValid(tok) {
			t.Fatalf("token %q should be invalid", tok)
		}
	}
	if _, err := c.Value("nodots"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Value error = %v, want ErrInvalidToken", err)
	}
}

func TestIsValidRejectsTamperedValue(t *testing.T) {
	c := newTestCodec(t, time.Minute)

	tok, err := c.Create("alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	forged := strings.Replace(tok, "alice", "mallory", 1)
	if c.IsValid(forged) {
		t.Fatal("tampered token should be invalid")
	}
}

func TestIsValidRejectsTamperedExpiry(t *testing.T) {
	c := newTestCodec(t, time.Minute)

	tok, err := c.Create("alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	parts := strings.Split(tok, ".")
	parts[1] = "9999999999"
	if c.IsValid(strings.Join(parts, ".")) {
		t.Fatal("token with rewritten expiry should be invalid")
	}
}

func TestIsValidRejectsWrongSecret(t *testing.T) {
	a := newTestCodec(t, time.Minute)
	b, err := New("another-secret", time.Minute, WithQuiet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tok, err := a.Create("alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.IsValid(tok) {
		t.Fatal("token signed with a different secret should be invalid")
	}
}

func TestExpiry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	c := newTestCodec(t, time.Second, WithClock(clock))

	tok, err := c.Create("alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !c.IsValid(tok) {
		t.Fatal("fresh token should be valid")
	}

	now = now.Add(2 * time.Second)
	if c.IsValid(tok) {
		t.Fatal("expired token should be invalid")
	}
	if _, err := c.Value(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Value error = %v, want ErrInvalidToken", err)
	}
}
