package widget

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/PageVerify/verify-widget-backend/logger"
	"github.com/PageVerify/verify-widget-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.IsTest = true
	logger.InitLogger()
	os.Exit(m.Run())
}

// stubForwarder records forwarded requests and returns a fixed error.
type stubForwarder struct {
	mu       sync.Mutex
	err      error
	block    chan struct{}
	received []types.VerificationRequest
}

func (s *stubForwarder) Forward(ctx context.Context, req types.VerificationRequest) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	s.received = append(s.received, req)
	s.mu.Unlock()
	return s.err
}

func (s *stubForwarder) requests() []types.VerificationRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.VerificationRequest(nil), s.received...)
}

// stubClipboard accepts or rejects writes.
type stubClipboard struct {
	err  error
	text string
}

func (s *stubClipboard) WriteText(text string) error {
	if s.err != nil {
		return s.err
	}
	s.text = text
	return nil
}

func mountWidget(t *testing.T, fwd Forwarder, opts ...Option) *Widget {
	t.Helper()
	page := DefaultPage()
	opts = append([]Option{WithForwarder(fwd)}, opts...)
	w := Mount(page, widgetConfig(), opts...)
	require.NotNil(t, w)
	return w
}

func TestMount(t *testing.T) {
	page := DefaultPage()
	w := Mount(page, widgetConfig())

	require.NotNil(t, w)
	assert.Equal(t, widgetConfig(), w.Config())
	assert.Same(t, page.Containers[0], w.Container())
	assert.True(t, w.Container().Mounted())

	label, disabled := w.SubmitControl()
	assert.Equal(t, widgetConfig().SubmitText, label)
	assert.False(t, disabled)
}

func TestMount_MissingContainer(t *testing.T) {
	cfg := widgetConfig()
	cfg.ContainerID = "does-not-exist"

	w := Mount(DefaultPage(), cfg)

	assert.Nil(t, w)
}

func TestWidget_Destroy(t *testing.T) {
	w := mountWidget(t, &stubForwarder{})

	w.Destroy()
	assert.False(t, w.Container().Mounted())

	// Idempotent
	w.Destroy()
	assert.False(t, w.Container().Mounted())

	result := w.Submit(context.Background(), types.VerificationInput{})
	assert.False(t, result.OK)
	assert.Equal(t, []string{"Widget is no longer mounted."}, result.Errors)
}

func TestWidget_SubmitSuccess(t *testing.T) {
	fwd := &stubForwarder{}
	w := mountWidget(t, fwd)

	in := types.VerificationInput{
		PageName:     "  Acme Inc  ",
		PageURL:      "https://www.facebook.com/AcmeInc",
		ContactEmail: "owner@acme.com",
	}
	result := w.Submit(context.Background(), in)

	assert.True(t, result.OK)
	assert.Equal(t, widgetConfig().SuccessMessage, result.Message)
	assert.Equal(t, types.ToneSuccess, result.Tone)

	msg, tone := w.Message()
	assert.Equal(t, widgetConfig().SuccessMessage, msg)
	assert.Equal(t, types.ToneSuccess, tone)

	// Submit control is restored after the request resolves.
	label, disabled := w.SubmitControl()
	assert.Equal(t, widgetConfig().SubmitText, label)
	assert.False(t, disabled)

	reqs := fwd.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Acme Inc", reqs[0].PageName)
	assert.Equal(t, "https://www.facebook.com/AcmeInc", reqs[0].PageURL)
	assert.Equal(t, "owner@acme.com", reqs[0].ContactEmail)
	assert.WithinDuration(t, time.Now().UTC(), reqs[0].SubmittedAt, 5*time.Second)
}

func TestWidget_SubmitForwardFailure(t *testing.T) {
	fwd := &stubForwarder{err: errors.New("upstream returned status 500: boom")}
	w := mountWidget(t, fwd)

	result := w.Submit(context.Background(), types.VerificationInput{
		PageName:     "Acme Inc",
		PageURL:      "https://www.facebook.com/AcmeInc",
		ContactEmail: "owner@acme.com",
	})

	assert.False(t, result.OK)
	assert.Equal(t, widgetConfig().ErrorMessage, result.Message)
	assert.Equal(t, types.ToneError, result.Tone)

	msg, tone := w.Message()
	assert.Equal(t, widgetConfig().ErrorMessage, msg)
	assert.Equal(t, types.ToneError, tone)

	// A failed submission leaves the widget usable for a manual retry.
	label, disabled := w.SubmitControl()
	assert.Equal(t, widgetConfig().SubmitText, label)
	assert.False(t, disabled)
}

func TestWidget_SubmitValidationFailure(t *testing.T) {
	fwd := &stubForwarder{}
	w := mountWidget(t, fwd)

	result := w.Submit(context.Background(), types.VerificationInput{
		PageName:     "",
		PageURL:      "ftp://bad",
		ContactEmail: "owner@acme.com",
	})

	assert.False(t, result.OK)
	assert.Equal(t, []string{MsgPageNameRequired, MsgPageURLInvalid}, result.Errors)
	assert.Equal(t, MsgPageNameRequired+" "+MsgPageURLInvalid, result.Message)
	assert.Empty(t, fwd.requests())

	msg, tone := w.Message()
	assert.Equal(t, result.Message, msg)
	assert.Equal(t, types.ToneError, tone)
}

func TestWidget_RefusesConcurrentSubmit(t *testing.T) {
	fwd := &stubForwarder{block: make(chan struct{})}
	w := mountWidget(t, fwd)

	in := types.VerificationInput{
		PageName:     "Acme Inc",
		PageURL:      "https://www.facebook.com/AcmeInc",
		ContactEmail: "owner@acme.com",
	}

	done := make(chan SubmitResult, 1)
	go func() {
		done <- w.Submit(context.Background(), in)
	}()

	// Wait for the first submit to enter Submitting.
	require.Eventually(t, func() bool {
		label, disabled := w.SubmitControl()
		return disabled && label == "Submitting..."
	}, time.Second, 5*time.Millisecond)

	second := w.Submit(context.Background(), in)
	assert.False(t, second.OK)
	assert.Equal(t, []string{"A submission is already in progress."}, second.Errors)

	close(fwd.block)
	first := <-done
	assert.True(t, first.OK)
	assert.Len(t, fwd.requests(), 1)
}

func TestWidget_GenerateTemplate(t *testing.T) {
	w := mountWidget(t, &stubForwarder{})

	in := types.VerificationInput{
		PageName:     "Acme Inc",
		PageURL:      "https://www.facebook.com/AcmeInc",
		ContactEmail: "owner@acme.com",
	}

	result := w.GenerateTemplate(in)
	assert.Equal(t, CopyStatusShown, result.CopyStatus)
	assert.Equal(t, BuildEmailTemplate(in), result.Template)

	text, visible := w.TemplateOutput()
	assert.True(t, visible)
	assert.Equal(t, result.Template, text)

	// Generating twice with unchanged values is idempotent.
	again := w.GenerateTemplate(in)
	assert.Equal(t, result.Template, again.Template)

	// Template generation never touches the submit state machine.
	label, disabled := w.SubmitControl()
	assert.Equal(t, widgetConfig().SubmitText, label)
	assert.False(t, disabled)
	msg, _ := w.Message()
	assert.Empty(t, msg)
}

func TestWidget_GenerateTemplateClipboard(t *testing.T) {
	cb := &stubClipboard{}
	w := mountWidget(t, &stubForwarder{}, WithClipboard(cb))

	in := types.VerificationInput{PageName: "Acme Inc"}
	result := w.GenerateTemplate(in)

	assert.Equal(t, CopyStatusCopied, result.CopyStatus)
	assert.Equal(t, result.Template, cb.text)
}

func TestWidget_GenerateTemplateClipboardFailure(t *testing.T) {
	cb := &stubClipboard{err: errors.New("denied")}
	w := mountWidget(t, &stubForwarder{}, WithClipboard(cb))

	result := w.GenerateTemplate(types.VerificationInput{PageName: "Acme Inc"})

	// Clipboard failure downgrades to "shown"; the template is still revealed.
	assert.Equal(t, CopyStatusShown, result.CopyStatus)
	_, visible := w.TemplateOutput()
	assert.True(t, visible)
}
