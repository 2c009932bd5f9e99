package widget

import (
	"fmt"
	"strings"

	"github.com/PageVerify/verify-widget-backend/types"
)

// NotProvided is rendered in place of optional values the user left empty.
const NotProvided = "(not provided)"

// defaultReason is the canned justification used when the reason field is empty.
const defaultReason = "Our Page represents an authentic business and we would like the verified badge to help our audience identify the official presence."

// BuildEmailTemplate produces the e-mail text a user can paste into their
// mail client to request verification manually. It is a pure function of the
// field values: identical input yields byte-identical output, and nothing is
// mutated or sent anywhere.
func BuildEmailTemplate(in types.VerificationInput) string {
	businessID := strings.TrimSpace(in.MetaBusinessID)
	if businessID == "" {
		businessID = NotProvided
	}

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = defaultReason
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Subject: Verification request for Facebook Page %q\n", in.PageName)
	b.WriteString("\n")
	b.WriteString("Hello Meta Support Team,\n")
	b.WriteString("\n")
	b.WriteString("I would like to request a verified badge for the following Facebook Page:\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Page name: %s\n", in.PageName)
	fmt.Fprintf(&b, "Page URL: %s\n", in.PageURL)
	fmt.Fprintf(&b, "Contact email: %s\n", in.ContactEmail)
	fmt.Fprintf(&b, "Meta Business ID: %s\n", businessID)
	b.WriteString("\n")
	b.WriteString("Reason for the request:\n")
	fmt.Fprintf(&b, "%s\n", reason)
	b.WriteString("\n")
	b.WriteString("Thank you for reviewing this request.\n")
	b.WriteString("\n")
	b.WriteString("Best regards,\n")
	b.WriteString("[Your name]\n")
	b.WriteString("[Your role]\n")
	b.WriteString("[Your phone number]\n")
	return b.String()
}
