package handlers

import (
	"net/http"

	apperrors "github.com/PageVerify/verify-widget-backend/errors"
	"github.com/PageVerify/verify-widget-backend/services"
	"github.com/PageVerify/verify-widget-backend/types"
	"github.com/PageVerify/verify-widget-backend/widget"
	"github.com/gin-gonic/gin"
)

// WidgetHandler exposes the mounted verification request widget over HTTP:
// the host page render, the submit flow, and template generation.
type WidgetHandler struct {
	widget      *widget.Widget
	page        *widget.Page
	emailSender services.EmailSender
}

// NewWidgetHandler creates a new WidgetHandler. emailSender may be nil when
// template e-mail delivery is not configured.
func NewWidgetHandler(w *widget.Widget, page *widget.Page, emailSender services.EmailSender) *WidgetHandler {
	return &WidgetHandler{
		widget:      w,
		page:        page,
		emailSender: emailSender,
	}
}

// RenderHostPage godoc
// @Summary      Render the widget host page
// @Description  Serves the host page with the verification request form mounted
// @Tags         widget
// @Produce      html
// @Success      200 {string} string "HTML page"
// @Failure      500 {object} types.ErrorResponse
// @Router       / [get]
func (h *WidgetHandler) RenderHostPage(c *gin.Context) {
	html, err := h.page.RenderHTML()
	if err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ServerError, "Failed to render page"))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// SubmitRequest godoc
// @Summary      Submit a verification request
// @Description  Validates the form values and forwards the submission to the upstream review endpoint
// @Tags         widget
// @Accept       json
// @Produce      json
// @Param        body  body      types.VerificationInput  true  "Form field values"
// @Success      200   {object}  types.SubmitResponse
// @Failure      400   {object}  types.SubmitResponse
// @Failure      429   {object}  types.ErrorResponse
// @Failure      502   {object}  types.SubmitResponse
// @Router       /v1/requests [post]
func (h *WidgetHandler) SubmitRequest(c *gin.Context) {
	var in types.VerificationInput
	if !bindJSONOrError(c, &in) {
		return
	}

	result := h.widget.Submit(c.Request.Context(), in)

	resp := types.SubmitResponse{
		Message: result.Message,
		Tone:    result.Tone,
		Errors:  result.Errors,
	}

	switch {
	case result.OK:
		resp.Status = "accepted"
		c.JSON(http.StatusOK, resp)
	case len(result.Errors) > 0:
		resp.Status = "rejected"
		c.JSON(http.StatusBadRequest, resp)
	default:
		// Validation passed but the upstream forward failed.
		resp.Status = "failed"
		c.JSON(http.StatusBadGateway, resp)
	}
}

// GenerateTemplate godoc
// @Summary      Generate an email template
// @Description  Builds the paste-ready verification request e-mail for the current field values
// @Tags         widget
// @Accept       json
// @Produce      json
// @Param        body  body      types.VerificationInput  true  "Form field values"
// @Success      200   {object}  types.TemplateResponse
// @Failure      400   {object}  types.ErrorResponse
// @Router       /v1/requests/template [post]
func (h *WidgetHandler) GenerateTemplate(c *gin.Context) {
	var in types.VerificationInput
	if !bindJSONOrError(c, &in) {
		return
	}

	result := h.widget.GenerateTemplate(in)

	c.JSON(http.StatusOK, types.TemplateResponse{
		Template:   result.Template,
		CopyStatus: result.CopyStatus,
	})
}

// EmailTemplate godoc
// @Summary      Email the generated template
// @Description  Sends the generated e-mail template to the requester's contact address
// @Tags         widget
// @Accept       json
// @Produce      json
// @Param        body  body      types.VerificationInput  true  "Form field values"
// @Success      200   {object}  types.StatusResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      501   {object}  types.ErrorResponse
// @Failure      502   {object}  types.ErrorResponse
// @Router       /v1/requests/template/email [post]
func (h *WidgetHandler) EmailTemplate(c *gin.Context) {
	if h.emailSender == nil || !h.emailSender.Enabled() {
		_ = c.Error(apperrors.FeatureDisabled("Template e-mail delivery"))
		return
	}

	var in types.VerificationInput
	if !bindJSONOrError(c, &in) {
		return
	}

	// The address must be usable before we hand it to the mail provider.
	validation := widget.Validate(in, h.widget.Config())
	if !validation.OK {
		_ = c.Error(apperrors.ValidationFailed("validation_failed", joinErrors(validation.Errors)))
		return
	}

	result := h.widget.GenerateTemplate(in)
	if err := h.emailSender.SendTemplateEmail(c.Request.Context(), in.ContactEmail, result.Template); err != nil {
		_ = c.Error(apperrors.NewSubmissionError(err, "Failed to send the template e-mail"))
		return
	}

	c.JSON(http.StatusOK, types.StatusResponse{Status: "Template e-mail sent"})
}
