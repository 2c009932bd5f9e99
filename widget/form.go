// Package widget implements the verification request widget: building the
// request form, validating field values, generating the fallback e-mail
// template, and driving submissions through the Idle/Submitting state machine.
package widget

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/PageVerify/verify-widget-backend/config"
)

// FieldType enumerates the input kinds the form renderer understands.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeURL      FieldType = "url"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeFile     FieldType = "file"
)

// Form field names. The honeypot is deliberately named like a real field so
// automated submitters fill it in.
const (
	FieldPageName       = "pageName"
	FieldPageURL        = "pageUrl"
	FieldContactEmail   = "contactEmail"
	FieldMetaBusinessID = "metaBusinessId"
	FieldReason         = "reason"
	FieldFile           = "supportingFile"
	FieldHoneypot       = "website"
)

// Field models a single labeled input inside the request form.
type Field struct {
	Name        string
	Label       string
	Type        FieldType
	Placeholder string
	Required    bool
	// Honeypot fields render off-screen so humans never see them.
	Honeypot bool
}

// Form is the detached form structure produced by BuildForm. It has no
// side effects until a Widget mounts it into a host page container.
type Form struct {
	Fields             []Field
	SubmitText         string
	TemplateButtonText string
}

// BuildForm constructs the verification request form for the given widget
// configuration. The file field is only present when RequireFile is set.
func BuildForm(cfg config.WidgetConfig) *Form {
	fields := []Field{
		{Name: FieldPageName, Label: "Page name", Type: FieldTypeText, Placeholder: "Your Facebook Page name", Required: true},
		{Name: FieldPageURL, Label: "Page URL", Type: FieldTypeURL, Placeholder: "https://www.facebook.com/YourPage", Required: true},
		{Name: FieldContactEmail, Label: "Contact email", Type: FieldTypeEmail, Placeholder: "you@example.com", Required: true},
		{Name: FieldMetaBusinessID, Label: "Meta Business ID (optional)", Type: FieldTypeText},
		{Name: FieldReason, Label: "Reason for verification (optional)", Type: FieldTypeTextarea, Placeholder: "Why should this Page be verified?"},
	}

	if cfg.RequireFile {
		fields = append(fields, Field{Name: FieldFile, Label: "Supporting document", Type: FieldTypeFile})
	}

	fields = append(fields, Field{Name: FieldHoneypot, Label: "Website", Type: FieldTypeText, Honeypot: true})

	return &Form{
		Fields:             fields,
		SubmitText:         cfg.SubmitText,
		TemplateButtonText: "Generate email template",
	}
}

// Field returns the form field with the given name, or nil.
func (f *Form) Field(name string) *Field {
	for i := range f.Fields {
		if f.Fields[i].Name == name {
			return &f.Fields[i]
		}
	}
	return nil
}

const formTemplateText = `<form id="vrw-form" class="vrw-form" novalidate>
{{- range .Fields }}
{{- if .Honeypot }}
  <div class="vrw-field" style="position:absolute;left:-9999px;top:auto;height:1px;overflow:hidden" aria-hidden="true">
    <label for="vrw-{{ .Name }}">{{ .Label }}</label>
    <input type="text" id="vrw-{{ .Name }}" name="{{ .Name }}" tabindex="-1" autocomplete="off">
  </div>
{{- else if eq .Type "textarea" }}
  <div class="vrw-field">
    <label for="vrw-{{ .Name }}">{{ .Label }}</label>
    <textarea id="vrw-{{ .Name }}" name="{{ .Name }}" rows="4" placeholder="{{ .Placeholder }}"{{ if .Required }} required{{ end }}></textarea>
  </div>
{{- else }}
  <div class="vrw-field">
    <label for="vrw-{{ .Name }}">{{ .Label }}</label>
    <input type="{{ .Type }}" id="vrw-{{ .Name }}" name="{{ .Name }}" placeholder="{{ .Placeholder }}"{{ if .Required }} required{{ end }}>
  </div>
{{- end }}
{{- end }}
  <div class="vrw-controls">
    <button type="submit" id="vrw-submit">{{ .SubmitText }}</button>
    <button type="button" id="vrw-generate">{{ .TemplateButtonText }}</button>
  </div>
  <pre id="vrw-template-output" class="vrw-template-output" style="display:none"></pre>
  <div id="vrw-message" class="vrw-message" role="status"></div>
</form>`

var formTemplate = template.Must(template.New("vrw-form").Parse(formTemplateText))

// RenderHTML renders the form structure to its HTML representation.
func (f *Form) RenderHTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := formTemplate.Execute(&buf, f); err != nil {
		return "", fmt.Errorf("failed to render form: %w", err)
	}
	return template.HTML(buf.String()), nil
}
