package widget

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/PageVerify/verify-widget-backend/config"
	"github.com/PageVerify/verify-widget-backend/logger"
	"github.com/PageVerify/verify-widget-backend/types"
)

// Forwarder delivers an accepted submission to the upstream review endpoint.
// It is the widget's only asynchronous collaborator.
type Forwarder interface {
	Forward(ctx context.Context, req types.VerificationRequest) error
}

// Clipboard is an optional collaborator for the "generate email template"
// control. Write failures are informational only.
type Clipboard interface {
	WriteText(text string) error
}

// Copy status values reported after template generation.
const (
	CopyStatusCopied = "copied"
	CopyStatusShown  = "shown"
)

// submittingLabel replaces the submit control text while a request is in flight.
const submittingLabel = "Submitting..."

// widgetState tracks the controller state machine.
type widgetState int

const (
	stateIdle widgetState = iota
	stateSubmitting
)

// SubmitResult reports the outcome of a submit attempt.
type SubmitResult struct {
	OK      bool
	Message string
	Tone    string
	Errors  []string
}

// TemplateResult reports a generated template and whether it reached the clipboard.
type TemplateResult struct {
	Template   string
	CopyStatus string
}

// Option configures a Widget at mount time.
type Option func(*Widget)

// WithForwarder sets the submission forwarder.
func WithForwarder(f Forwarder) Option {
	return func(w *Widget) { w.forwarder = f }
}

// WithClipboard sets the optional clipboard collaborator.
func WithClipboard(cb Clipboard) Option {
	return func(w *Widget) { w.clipboard = cb }
}

// Widget is the handle returned by Mount. It owns the mounted form and the
// Idle/Submitting state machine driving submissions.
type Widget struct {
	cfg       config.WidgetConfig
	container *Container
	form      *Form
	forwarder Forwarder
	clipboard Clipboard

	mu    sync.Mutex
	state widgetState

	// UI state mirrored for the rendering surface and for tests.
	submitLabel     string
	submitDisabled  bool
	message         string
	messageTone     string
	templateOutput  string
	templateVisible bool
	destroyed       bool
}

// Mount resolves the configured container on the host page, builds the form,
// attaches it, and returns the widget handle. When the container id cannot be
// found it logs an error and returns nil without mounting anything; that is
// the only failure mode and it is not propagated as an error value.
func Mount(page *Page, cfg config.WidgetConfig, opts ...Option) *Widget {
	log := logger.GetLogger()

	container := page.Container(cfg.ContainerID)
	if container == nil {
		log.Errorw("Widget container not found, refusing to mount",
			"container_id", cfg.ContainerID)
		return nil
	}

	w := &Widget{
		cfg:         cfg,
		container:   container,
		form:        BuildForm(cfg),
		submitLabel: cfg.SubmitText,
	}

	for _, opt := range opts {
		opt(w)
	}

	container.attach(w.form)
	log.Infow("Widget mounted",
		"container_id", cfg.ContainerID,
		"endpoint", cfg.Endpoint,
		"require_file", cfg.RequireFile)
	return w
}

// Config returns the resolved widget configuration.
func (w *Widget) Config() config.WidgetConfig {
	return w.cfg
}

// Container returns the container the form is mounted in.
func (w *Widget) Container() *Container {
	return w.container
}

// Form returns the mounted form structure.
func (w *Widget) Form() *Form {
	return w.form
}

// Destroy removes the mounted form from its container. It is idempotent and
// the handle must not be used for submissions afterwards.
func (w *Widget) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return
	}
	w.container.detach()
	w.destroyed = true
	logger.GetLogger().Infow("Widget destroyed", "container_id", w.cfg.ContainerID)
}

// Submit runs the full submission flow: validate, transition to Submitting,
// forward the record, report the configured success or error message, and
// return to Idle. Validation failures leave the widget Idle and report the
// joined rule violations. A submit while another is in flight is refused;
// the disabled submit control prevents this on a real surface, so the guard
// only matters for direct API calls.
func (w *Widget) Submit(ctx context.Context, in types.VerificationInput) SubmitResult {
	log := logger.GetLogger()

	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return SubmitResult{OK: false, Tone: types.ToneError, Errors: []string{"Widget is no longer mounted."}}
	}
	if w.state == stateSubmitting {
		w.mu.Unlock()
		return SubmitResult{OK: false, Tone: types.ToneError, Errors: []string{"A submission is already in progress."}}
	}

	validation := Validate(in, w.cfg)
	if !validation.OK {
		joined := strings.Join(validation.Errors, " ")
		w.message = joined
		w.messageTone = types.ToneError
		w.mu.Unlock()
		log.Debugw("Submission rejected by validation",
			"errors", validation.Errors,
			"contact_email", logger.MaskEmail(in.ContactEmail))
		return SubmitResult{OK: false, Message: joined, Tone: types.ToneError, Errors: validation.Errors}
	}

	// Enter Submitting: disable the control and swap its label for the
	// duration of the forward call.
	w.state = stateSubmitting
	w.submitDisabled = true
	w.submitLabel = submittingLabel
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.state = stateIdle
		w.submitDisabled = false
		w.submitLabel = w.cfg.SubmitText
		w.mu.Unlock()
	}()

	req := types.VerificationRequest{
		PageName:       strings.TrimSpace(in.PageName),
		PageURL:        strings.TrimSpace(in.PageURL),
		ContactEmail:   strings.TrimSpace(in.ContactEmail),
		MetaBusinessID: strings.TrimSpace(in.MetaBusinessID),
		Reason:         strings.TrimSpace(in.Reason),
		SubmittedAt:    time.Now().UTC(),
	}

	if err := w.forwarder.Forward(ctx, req); err != nil {
		log.Errorw("Verification request forwarding failed",
			"error", err,
			"page_name", req.PageName,
			"contact_email", logger.MaskEmail(req.ContactEmail))
		w.setMessage(w.cfg.ErrorMessage, types.ToneError)
		return SubmitResult{OK: false, Message: w.cfg.ErrorMessage, Tone: types.ToneError}
	}

	log.Infow("Verification request forwarded",
		"page_name", req.PageName,
		"contact_email", logger.MaskEmail(req.ContactEmail))
	w.setMessage(w.cfg.SuccessMessage, types.ToneSuccess)
	return SubmitResult{OK: true, Message: w.cfg.SuccessMessage, Tone: types.ToneSuccess}
}

// GenerateTemplate computes the e-mail template for the current field values,
// reveals it in the output area, and makes a best-effort clipboard write.
// It never touches the Idle/Submitting state.
func (w *Widget) GenerateTemplate(in types.VerificationInput) TemplateResult {
	text := BuildEmailTemplate(in)

	w.mu.Lock()
	w.templateOutput = text
	w.templateVisible = true
	w.mu.Unlock()

	status := CopyStatusShown
	if w.clipboard != nil {
		if err := w.clipboard.WriteText(text); err != nil {
			// Clipboard failure is informational; the template is shown either way.
			logger.GetLogger().Debugw("Clipboard write failed", "error", err)
		} else {
			status = CopyStatusCopied
		}
	}

	return TemplateResult{Template: text, CopyStatus: status}
}

func (w *Widget) setMessage(msg, tone string) {
	w.mu.Lock()
	w.message = msg
	w.messageTone = tone
	w.mu.Unlock()
}

// Message returns the current message area text and tone.
func (w *Widget) Message() (string, string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.message, w.messageTone
}

// SubmitControl returns the submit control's current label and disabled state.
func (w *Widget) SubmitControl() (label string, disabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitLabel, w.submitDisabled
}

// TemplateOutput returns the output area text and whether it is revealed.
func (w *Widget) TemplateOutput() (text string, visible bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.templateOutput, w.templateVisible
}
