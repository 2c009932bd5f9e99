package widget

import (
	"strings"
	"testing"

	"github.com/PageVerify/verify-widget-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widgetConfig() config.WidgetConfig {
	return config.WidgetConfig{
		Endpoint:       "https://upstream.example.com/verify",
		ContainerID:    config.DefaultContainerID,
		SubmitText:     config.DefaultSubmitText,
		SuccessMessage: config.DefaultSuccessMessage,
		ErrorMessage:   config.DefaultErrorMessage,
	}
}

func TestBuildForm_Fields(t *testing.T) {
	form := BuildForm(widgetConfig())

	var names []string
	for _, f := range form.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		FieldPageName,
		FieldPageURL,
		FieldContactEmail,
		FieldMetaBusinessID,
		FieldReason,
		FieldHoneypot,
	}, names)

	assert.Equal(t, config.DefaultSubmitText, form.SubmitText)
	assert.True(t, form.Field(FieldPageName).Required)
	assert.True(t, form.Field(FieldHoneypot).Honeypot)
	assert.False(t, form.Field(FieldReason).Required)
}

func TestBuildForm_FileFieldOnlyWhenRequired(t *testing.T) {
	cfg := widgetConfig()
	assert.Nil(t, BuildForm(cfg).Field(FieldFile))

	cfg.RequireFile = true
	form := BuildForm(cfg)
	require.NotNil(t, form.Field(FieldFile))
	assert.Equal(t, FieldTypeFile, form.Field(FieldFile).Type)
}

func TestForm_RenderHTML(t *testing.T) {
	cfg := widgetConfig()
	cfg.SubmitText = "Send it"
	form := BuildForm(cfg)

	html, err := form.RenderHTML()
	require.NoError(t, err)
	rendered := string(html)

	assert.Contains(t, rendered, `name="pageName"`)
	assert.Contains(t, rendered, `name="pageUrl"`)
	assert.Contains(t, rendered, `name="contactEmail"`)
	assert.Contains(t, rendered, `name="metaBusinessId"`)
	assert.Contains(t, rendered, `<textarea id="vrw-reason"`)
	assert.Contains(t, rendered, ">Send it</button>")

	// The honeypot renders off-screen, never display:none on the input itself.
	honeypotIdx := strings.Index(rendered, `name="website"`)
	require.Greater(t, honeypotIdx, 0)
	assert.Contains(t, rendered, "left:-9999px")
	assert.Contains(t, rendered, `tabindex="-1"`)

	// The template output area starts hidden; the message area is present.
	assert.Contains(t, rendered, `id="vrw-template-output"`)
	assert.Contains(t, rendered, `style="display:none"`)
	assert.Contains(t, rendered, `id="vrw-message"`)
}

func TestForm_RenderHTML_EscapesConfigText(t *testing.T) {
	cfg := widgetConfig()
	cfg.SubmitText = `<script>alert("x")</script>`
	form := BuildForm(cfg)

	html, err := form.RenderHTML()
	require.NoError(t, err)

	assert.NotContains(t, string(html), "<script>")
}
