// internal/form/submit.go
package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	apperrors "certification-intake/internal/common/errors"
	httpclient "certification-intake/internal/common/http"
	"certification-intake/internal/common/logger"
	"certification-intake/internal/common/metrics"
	"certification-intake/internal/i18n"
	"certification-intake/internal/models"
)

// Validation message keys, in the order they are checked.
const (
	KeySelectApplicationType = "validation.selectApplicationType"
	KeyAuditLanguage         = "validation.auditLanguage"
)

// ValidationError blocks a submission before any request is made.
// Key is the locale key of the message shown to the user.
type ValidationError struct {
	Key string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Key
}

// Validate checks the two required fields.
func Validate(app models.Application) error {
	if len(app.ApplicationTypes) == 0 {
		return &ValidationError{Key: KeySelectApplicationType}
	}
	if strings.TrimSpace(app.AuditLanguage) == "" {
		return &ValidationError{Key: KeyAuditLanguage}
	}
	return nil
}

// BuildPayload assembles the relay body. The top-level copies are taken
// from translated, except filledBy/organizationName/eik which are free text.
func BuildPayload(translated models.TranslatedApplication, app models.Application) models.SubmissionPayload {
	return models.SubmissionPayload{
		FormData:          translated,
		SelectedStandards: translated.Standards,
		ApplicationTypes:  translated.ApplicationTypes,
		FilledBy:          app.FilledBy,
		OrganizationName:  app.OrganizationName,
		EIK:               app.EIK,
	}
}

// Submit error kinds.
const (
	KindRejected = "rejected"
	KindNetwork  = "network"
)

// SubmitError is a failed delivery to the relay. Status is 0 for network
// failures; Message is the relay's message when it sent one.
type SubmitError struct {
	Kind    string
	Status  int
	Message string
	cause   error
}

func (e *SubmitError) Error() string {
	if e.Kind == KindNetwork {
		return fmt.Sprintf("relay unreachable: %v", e.cause)
	}
	return fmt.Sprintf("relay rejected submission (%d): %s", e.Status, e.Message)
}

func (e *SubmitError) Unwrap() error {
	return e.cause
}

// Submitter validates, translates and posts an application to the relay.
type Submitter struct {
	client     *httpclient.Client
	relayURL   string
	translator *Translator
	logger     logger.Logger
}

func NewSubmitter(client *httpclient.Client, relayURL string, translator *Translator, log logger.Logger) *Submitter {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Submitter{
		client:     client,
		relayURL:   relayURL,
		translator: translator,
		logger:     log,
	}
}

// Submit returns the application id issued by the relay. On a validation
// error no request is made.
func (s *Submitter) Submit(ctx context.Context, app models.Application, lang i18n.Language) (string, error) {
	if err := Validate(app); err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			metrics.FormValidationFailures.WithLabelValues(vErr.Key).Inc()
		}
		return "", err
	}

	payload := BuildPayload(s.translator.Translate(app, lang), app)
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	headers := map[string]string{}
	if id := httpclient.RequestID(ctx); id != "" {
		headers[httpclient.RequestIDHeader] = id
	}

	resp, err := s.client.PostJSON(ctx, s.relayURL, body, headers)
	if err != nil {
		s.logger.Error("Relay request failed", map[string]interface{}{
			"url":   s.relayURL,
			"error": err,
		})
		return "", &SubmitError{Kind: KindNetwork, cause: err}
	}

	var result apperrors.Envelope
	decodeErr := json.Unmarshal(resp.Body, &result)

	if !resp.OK() || decodeErr != nil || !result.Success {
		msg := result.Message
		if msg == "" {
			msg = resp.StatusText
		}
		s.logger.Warn("Relay rejected submission", map[string]interface{}{
			"status":  resp.StatusCode,
			"message": msg,
		})
		return "", &SubmitError{Kind: KindRejected, Status: resp.StatusCode, Message: msg, cause: decodeErr}
	}

	s.logger.Info("Submission accepted", map[string]interface{}{
		"applicationId": result.ID,
	})
	return result.ID, nil
}

// State is a step of the submission lifecycle.
type State int

const (
	Idle State = iota
	Submitting
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	}
	return "unknown"
}

var ErrAlreadySubmitting = errors.New("submission already in progress")

// Submission tracks one form's submit button: Idle, then Submitting, then
// Success or back to Idle with the failure kept in Err.
type Submission struct {
	mu    sync.Mutex
	state State
	id    string
	err   error
}

// Begin moves Idle to Submitting.
func (s *Submission) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Submitting {
		return ErrAlreadySubmitting
	}
	s.state = Submitting
	s.err = nil
	return nil
}

// Finish records the outcome of the attempt started by Begin. A failure
// returns the machine to Idle with the error kept for display.
func (s *Submission) Finish(id string, err error) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		s.state = Idle
		return Failed
	}
	s.id = id
	s.state = Success
	return Success
}

func (s *Submission) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err is the error of the last failed attempt.
func (s *Submission) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ID is the application id of the successful attempt.
func (s *Submission) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Run drives one attempt through the machine with submitter.
func (s *Submission) Run(ctx context.Context, submitter *Submitter, app models.Application, lang i18n.Language) (State, error) {
	if err := s.Begin(); err != nil {
		return Submitting, err
	}
	id, err := submitter.Submit(ctx, app, lang)
	return s.Finish(id, err), err
}
