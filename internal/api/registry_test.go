package api

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/djscruggs/cardlessid-sub002/pkg/store"
)

func addTestIssuer(t *testing.T, s *store.Store, address string) {
	t.Helper()

	if err := s.AddIssuer(&store.Issuer{
		Address:      address,
		Name:         "State DMV",
		AuthorizedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("failed to add issuer: %v", err)
	}
}

func TestVerifyCredential_Valid(t *testing.T) {
	t.Parallel()
	s, handler := setupTestServer(t)
	addTestIssuer(t, s, "ISSUER_A")

	rec := doForm(t, handler, "/issuer-registry/verify-credential", url.Values{
		"credentialId":  {"cred-1"},
		"issuerAddress": {"ISSUER_A"},
		"issuanceDate":  {"2024-06-01"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("expected success=true, got %v", body["success"])
	}
	if body["valid"] != true {
		t.Errorf("expected valid=true, got %v (reason: %v)", body["valid"], body["reason"])
	}
	// Inputs are echoed back.
	if body["credentialId"] != "cred-1" || body["issuerAddress"] != "ISSUER_A" || body["issuanceDate"] != "2024-06-01" {
		t.Errorf("inputs not echoed: %v", body)
	}
}

func TestVerifyCredential_UnknownIssuer(t *testing.T) {
	t.Parallel()
	_, handler := setupTestServer(t)

	rec := doForm(t, handler, "/issuer-registry/verify-credential", url.Values{
		"credentialId":  {"cred-1"},
		"issuerAddress": {"ISSUER_UNKNOWN"},
		"issuanceDate":  {"2024-06-01"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["valid"] != false {
		t.Errorf("expected valid=false, got %v", body["valid"])
	}
	if body["reason"] != "issuer is not registered" {
		t.Errorf("unexpected reason: %v", body["reason"])
	}
}

func TestVerifyCredential_MissingFields(t *testing.T) {
	t.Parallel()
	_, handler := setupTestServer(t)

	cases := []url.Values{
		{},
		{"credentialId": {"cred-1"}},
		{"credentialId": {"cred-1"}, "issuerAddress": {"ISSUER_A"}},
		{"issuerAddress": {"ISSUER_A"}, "issuanceDate": {"2024-06-01"}},
	}
	for i, form := range cases {
		rec := doForm(t, handler, "/issuer-registry/verify-credential", form)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("case %d: expected status 400, got %d", i, rec.Code)
			continue
		}
		body := decodeBody(t, rec)
		if body["error"] != "credentialId, issuerAddress, and issuanceDate are required" {
			t.Errorf("case %d: unexpected error: %v", i, body["error"])
		}
	}
}

func TestVerifyCredential_MalformedDate(t *testing.T) {
	t.Parallel()
	s, handler := setupTestServer(t)
	addTestIssuer(t, s, "ISSUER_A")

	// Malformed date is rejected even when every other field is valid.
	rec := doForm(t, handler, "/issuer-registry/verify-credential", url.Values{
		"credentialId":  {"cred-1"},
		"issuerAddress": {"ISSUER_A"},
		"issuanceDate":  {"not-a-date"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "issuanceDate must be a valid date" {
		t.Errorf("unexpected error: %v", body["error"])
	}
}

func TestVerifyCredential_AcceptsRFC3339(t *testing.T) {
	t.Parallel()
	s, handler := setupTestServer(t)
	addTestIssuer(t, s, "ISSUER_A")

	rec := doForm(t, handler, "/issuer-registry/verify-credential", url.Values{
		"credentialId":  {"cred-1"},
		"issuerAddress": {"ISSUER_A"},
		"issuanceDate":  {"2024-06-01T12:30:00Z"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["valid"] != true {
		t.Errorf("expected valid=true, got %v", body["valid"])
	}
}

func TestVerifyCredential_RevokedCredential(t *testing.T) {
	t.Parallel()
	s, handler := setupTestServer(t)
	addTestIssuer(t, s, "ISSUER_A")
	if err := s.RevokeCredential("cred-bad", "ISSUER_A"); err != nil {
		t.Fatalf("failed to revoke credential: %v", err)
	}

	rec := doForm(t, handler, "/issuer-registry/verify-credential", url.Values{
		"credentialId":  {"cred-bad"},
		"issuerAddress": {"ISSUER_A"},
		"issuanceDate":  {"2024-06-01"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["valid"] != false || body["reason"] != "credential has been revoked" {
		t.Errorf("unexpected verdict: %v", body)
	}
}
