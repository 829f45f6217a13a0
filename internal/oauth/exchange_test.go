package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestExchangeCode(t *testing.T) {
	var gotForm map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		json.NewEncoder(w).Encode(TokenResponse{
			AccessToken: "at",
			IDToken:     "idt",
			TokenType:   "Bearer",
			ExpiresIn:   3600,
		})
	}))
	defer ts.Close()

	env := googleEnv()
	env["OAUTH_GOOGLE_ENDPOINT_TOKEN"] = ts.URL
	c := NewConfig("google", mapEnv(env))

	tr, err := ExchangeCode(context.Background(), ts.Client(), c, "the-code")
	if err != nil {
		t.Fatalf("ExchangeCode: %v", err)
	}
	if tr.AccessToken != "at" || tr.IDToken != "idt" || tr.ExpiresIn != 3600 {
		t.Fatalf("response = %+v", tr)
	}

	want := map[string]string{
		"grant_type":    "authorization_code",
		"code":          "the-code",
		"redirect_uri":  env["OAUTH_GOOGLE_ENDPOINT_REDIRECT"],
		"client_id":     "client-123",
		"client_secret": "shhh",
	}
	for k, v := range want {
		if gotForm[k] != v {
			t.Fatalf("form[%s] = %q, want %q", k, gotForm[k], v)
		}
	}
}

func TestExchangeCodeProviderError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer ts.Close()

	env := googleEnv()
	env["OAUTH_GOOGLE_ENDPOINT_TOKEN"] = ts.URL
	c := NewConfig("google", mapEnv(env))

	if _, err := ExchangeCode(context.Background(), ts.Client(), c, "bad"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestParseIDTokenClaims(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "provider-sub-1",
		"email": "a@example.com",
		"iss":   "https://accounts.google.com",
	}).SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := ParseIDTokenClaims(raw)
	if err != nil {
		t.Fatalf("ParseIDTokenClaims: %v", err)
	}
	if claims.Subject != "provider-sub-1" {
		t.Fatalf("sub = %q", claims.Subject)
	}
	if claims.Email != "a@example.com" {
		t.Fatalf("email = %q", claims.Email)
	}
}

func TestParseIDTokenClaimsGarbage(t *testing.T) {
	if _, err := ParseIDTokenClaims("not.a.jwt"); err == nil {
		t.Fatal("expected error for malformed id_token")
	}
}
