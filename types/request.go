package types

import "time"

// VerificationRequest is the submission record forwarded to the upstream
// review endpoint. Exactly these six fields go on the wire; SubmittedAt is
// serialized as an RFC 3339 timestamp.
type VerificationRequest struct {
	PageName       string    `json:"pageName"`
	PageURL        string    `json:"pageUrl"`
	ContactEmail   string    `json:"contactEmail"`
	MetaBusinessID string    `json:"metaBusinessId"`
	Reason         string    `json:"reason"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// VerificationInput carries the raw form field values as entered by the user.
// Website is the honeypot field: hidden from humans by styling, so any value
// in it marks the submission as automated spam.
type VerificationInput struct {
	PageName       string `json:"pageName"`
	PageURL        string `json:"pageUrl"`
	ContactEmail   string `json:"contactEmail"`
	MetaBusinessID string `json:"metaBusinessId,omitempty"`
	Reason         string `json:"reason,omitempty"`
	HasFile        bool   `json:"hasFile,omitempty"`
	Website        string `json:"website,omitempty"`
}

// ValidationResult is the outcome of validating a VerificationInput.
// OK is true only when Errors is empty. Errors preserves rule order.
type ValidationResult struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors"`
}
