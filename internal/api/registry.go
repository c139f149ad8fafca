package api

import (
	"net/http"
	"time"
)

// issuanceDateFormats are the accepted layouts for the issuanceDate form
// field, tried in order.
var issuanceDateFormats = []string{"2006-01-02", time.RFC3339}

type verifyCredentialResponse struct {
	Success       bool   `json:"success"`
	Valid         bool   `json:"valid"`
	Reason        string `json:"reason"`
	CredentialID  string `json:"credentialId"`
	IssuerAddress string `json:"issuerAddress"`
	IssuanceDate  string `json:"issuanceDate"`
}

// handleVerifyCredential checks a credential against the issuer registry.
// Inputs arrive as form fields; the pass/fail determination is delegated to
// the registry evaluator and echoed back alongside the inputs.
func (s *Server) handleVerifyCredential(w http.ResponseWriter, r *http.Request) {
	credentialID := r.FormValue("credentialId")
	issuerAddress := r.FormValue("issuerAddress")
	issuanceDateStr := r.FormValue("issuanceDate")

	if credentialID == "" || issuerAddress == "" || issuanceDateStr == "" {
		respondError(w, r, missingFields("credentialId, issuerAddress, and issuanceDate are required"))
		return
	}

	issuanceDate, err := parseIssuanceDate(issuanceDateStr)
	if err != nil {
		respondError(w, r, malformedDate("issuanceDate must be a valid date"))
		return
	}

	decision, err := s.evaluator.Evaluate(credentialID, issuerAddress, issuanceDate)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyCredentialResponse{
		Success:       true,
		Valid:         decision.Valid,
		Reason:        decision.Reason,
		CredentialID:  credentialID,
		IssuerAddress: issuerAddress,
		IssuanceDate:  issuanceDateStr,
	})
}

func parseIssuanceDate(value string) (time.Time, error) {
	var err error
	for _, layout := range issuanceDateFormats {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
