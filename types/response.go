package types

// StatusResponse is the standard success envelope for API endpoints.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the standard error structure returned to clients.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// SubmitResponse reports the outcome of a verification request submission.
// Message carries the configured success or error text shown in the widget
// message area; Tone tells the client how to style it.
type SubmitResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Tone    string   `json:"tone"`
	Errors  []string `json:"errors,omitempty"`
}

// TemplateResponse carries a generated email template back to the widget.
// CopyStatus is "copied" when a clipboard collaborator accepted the text and
// "shown" when the user has to copy it manually.
type TemplateResponse struct {
	Template   string `json:"template"`
	CopyStatus string `json:"copyStatus"`
}

// Message tones for the widget message area.
const (
	ToneSuccess = "success"
	ToneError   = "error"
)
