package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/djscruggs/cardlessid-sub002/pkg/store"
)

func createTestSession(t *testing.T, s *store.Store, id string, verifiedData, integrityHash *string) {
	t.Helper()

	now := time.Now()
	if err := s.CreateVerificationSession(&store.VerificationSession{
		ID:                 id,
		Provider:           "didit",
		Status:             "completed",
		CreatedAt:          now,
		ExpiresAt:          now.Add(30 * time.Minute),
		VerifiedData:       verifiedData,
		FraudCheckPassed:   true,
		BothSidesProcessed: true,
		ExtractionMethod:   "nfc",
		IntegrityHash:      integrityHash,
	}); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
}

func TestSessionStatus_MetadataView(t *testing.T) {
	t.Parallel()
	s, handler := setupTestServer(t)

	payload := `{"givenName":"Jane","familyName":"Doe","birthDate":"1990-04-01"}`
	hash := "sha256:abcdef"
	createTestSession(t, s, "vs_1", &payload, &hash)

	rec := doGet(t, handler, "/verification/session/vs_1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("expected success=true, got %v", body["success"])
	}
	session, ok := body["session"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected session object, got %v", body["session"])
	}
	if session["id"] != "vs_1" || session["provider"] != "didit" || session["status"] != "completed" {
		t.Errorf("unexpected session fields: %v", session)
	}

	metadata, ok := session["metadata"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected metadata object, got %v", session["metadata"])
	}
	if metadata["fraudCheckPassed"] != true {
		t.Errorf("expected fraudCheckPassed=true, got %v", metadata["fraudCheckPassed"])
	}
	if metadata["bothSidesProcessed"] != true {
		t.Errorf("expected bothSidesProcessed=true, got %v", metadata["bothSidesProcessed"])
	}
	if metadata["extractionMethod"] != "nfc" {
		t.Errorf("expected extractionMethod=nfc, got %v", metadata["extractionMethod"])
	}
	if metadata["hasVerifiedData"] != true {
		t.Errorf("expected hasVerifiedData=true, got %v", metadata["hasVerifiedData"])
	}
	if metadata["dataIntegrityProtected"] != true {
		t.Errorf("expected dataIntegrityProtected=true, got %v", metadata["dataIntegrityProtected"])
	}
}

func TestSessionStatus_NeverLeaksVerifiedData(t *testing.T) {
	t.Parallel()
	s, handler := setupTestServer(t)

	payload := `{"givenName":"Jane","familyName":"Doe","birthDate":"1990-04-01"}`
	createTestSession(t, s, "vs_1", &payload, nil)

	rec := doGet(t, handler, "/verification/session/vs_1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	// The raw payload must not appear anywhere in the serialized response.
	raw := rec.Body.String()
	for _, fragment := range []string{"Jane", "Doe", "1990-04-01", "verifiedData", "birthDate"} {
		if strings.Contains(raw, fragment) {
			t.Errorf("response leaked verified data fragment %q: %s", fragment, raw)
		}
	}

	body := decodeBody(t, doGet(t, handler, "/verification/session/vs_1", ""))
	session := body["session"].(map[string]interface{})
	metadata := session["metadata"].(map[string]interface{})
	if metadata["hasVerifiedData"] != true {
		t.Error("presence flag should still be true when payload exists")
	}
	if metadata["dataIntegrityProtected"] != false {
		t.Error("integrity flag should be false without a hash")
	}
}

func TestSessionStatus_NotFound(t *testing.T) {
	t.Parallel()
	_, handler := setupTestServer(t)

	rec := doGet(t, handler, "/verification/session/vs_missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Session not found" {
		t.Errorf("unexpected error message: %v", body["error"])
	}
}
