package csrf

import (
	"testing"

	"github.com/dropDatabas3/littlejohn/internal/security/token"
)

func newTestBinder(t *testing.T) *Binder {
	t.Helper()
	b, err := New("csrf-secret", token.WithQuiet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestIssueAndValidate(t *testing.T) {
	b := newTestBinder(t)

	tok, err := b.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !b.Validate(tok, "user-1") {
		t.Fatal("token should validate for its principal")
	}
}

func TestValidateRejectsOtherPrincipal(t *testing.T) {
	b := newTestBinder(t)

	tok, err := b.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if b.Validate(tok, "user-2") {
		t.Fatal("token must not validate for a different principal")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	b := newTestBinder(t)

	if b.Validate("", "user-1") {
		t.Fatal("empty token should be invalid")
	}
	if b.Validate("not.a.token", "user-1") {
		t.Fatal("forged token should be invalid")
	}
}

func TestValidateRejectsOtherSecret(t *testing.T) {
	a := newTestBinder(t)
	b, err := New("another-secret", token.WithQuiet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tok, err := a.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if b.Validate(tok, "user-1") {
		t.Fatal("token signed under another secret should be invalid")
	}
}
