package widget

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PageVerify/verify-widget-backend/config"
	"github.com/PageVerify/verify-widget-backend/types"
)

// User-facing validation messages, in rule order.
const (
	MsgSpamDetected     = "Spam detected."
	MsgPageNameRequired = "Page name is required."
	MsgPageURLInvalid   = "Page URL must be a valid http or https URL."
	MsgEmailInvalid     = "Contact email address is invalid."
)

// emailPattern is deliberately conservative: something before the @,
// something after it, and at least one dot in the domain part.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s]+$`)

// Validate checks the raw form values against the widget's field rules and
// returns the collected violations in rule order. It is a pure function: no
// I/O and no mutation of the input.
//
// The honeypot rule short-circuits: a non-empty honeypot fails immediately
// with the spam message and no other rule runs. All other violations are
// collected rather than stopping at the first.
func Validate(in types.VerificationInput, cfg config.WidgetConfig) types.ValidationResult {
	if strings.TrimSpace(in.Website) != "" {
		return types.ValidationResult{OK: false, Errors: []string{MsgSpamDetected}}
	}

	var errs []string

	if strings.TrimSpace(in.PageName) == "" {
		errs = append(errs, MsgPageNameRequired)
	}

	if !isHTTPURL(in.PageURL) {
		errs = append(errs, MsgPageURLInvalid)
	}

	if !emailPattern.MatchString(in.ContactEmail) {
		errs = append(errs, MsgEmailInvalid)
	}

	// Supporting document rule: computed but intentionally not enforced.
	// TODO: append a violation once product confirms the document
	// requirement should block submissions.
	fileMissing := cfg.RequireFile && !in.HasFile
	_ = fileMissing

	return types.ValidationResult{OK: len(errs) == 0, Errors: errs}
}

// isHTTPURL reports whether raw parses as an absolute URL with scheme
// exactly http or https.
func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
