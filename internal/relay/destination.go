// internal/relay/destination.go
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "certification-intake/internal/common/errors"
	httpclient "certification-intake/internal/common/http"
)

// Delivery is one stamped submission on its way to the destination.
type Delivery struct {
	ApplicationID string
	RequestID     string
	Body          []byte
}

// Destination receives stamped submissions. Deliver returns nil on
// acceptance or a *errors.StandardError describing the failure.
type Destination interface {
	Name() string
	Deliver(ctx context.Context, d Delivery) error
}

// IdempotencyKeyHeader carries the application id to the webhook so a
// receiver can drop duplicates.
const IdempotencyKeyHeader = "Idempotency-Key"

// WebhookDestination posts the submission to an HTTP endpoint.
type WebhookDestination struct {
	client *httpclient.Client
	url    string
}

// NewWebhookDestination accepts an empty url; each delivery then fails with
// a configuration error.
func NewWebhookDestination(client *httpclient.Client, url string) *WebhookDestination {
	return &WebhookDestination{client: client, url: url}
}

func (w *WebhookDestination) Name() string {
	return "webhook"
}

func (w *WebhookDestination) Deliver(ctx context.Context, d Delivery) error {
	if w.url == "" {
		return apperrors.NewMissingWebhookError()
	}

	headers := map[string]string{IdempotencyKeyHeader: d.ApplicationID}
	if d.RequestID != "" {
		headers[httpclient.RequestIDHeader] = d.RequestID
	}

	resp, err := w.client.PostJSON(ctx, w.url, d.Body, headers)
	if err != nil {
		return apperrors.NewUpstreamUnreachableError(w.Name(), err)
	}
	if !resp.OK() {
		return apperrors.NewUpstreamRejectedError(resp.StatusCode, resp.StatusText, string(resp.Body))
	}
	return nil
}

// ProcessStarter starts a BPMN process instance with the given variables.
type ProcessStarter interface {
	StartProcess(ctx context.Context, processID string, vars map[string]interface{}) (int64, error)
}

// ZeebeDestination starts one process instance per submission, with the
// stamped document as process variables.
type ZeebeDestination struct {
	starter   ProcessStarter
	processID string
}

func NewZeebeDestination(starter ProcessStarter, processID string) *ZeebeDestination {
	return &ZeebeDestination{starter: starter, processID: processID}
}

func (z *ZeebeDestination) Name() string {
	return "zeebe"
}

func (z *ZeebeDestination) Deliver(ctx context.Context, d Delivery) error {
	if z.starter == nil || z.processID == "" {
		return apperrors.NewConfigurationError(apperrors.MsgInternal, "zeebe destination is not configured")
	}

	vars := make(map[string]interface{})
	if err := json.Unmarshal(d.Body, &vars); err != nil {
		return apperrors.NewInternalError(fmt.Errorf("decode stamped submission: %w", err))
	}

	if _, err := z.starter.StartProcess(ctx, z.processID, vars); err != nil {
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) {
			return stdErr
		}
		return apperrors.NewUpstreamRejectedError(502, "", err.Error())
	}
	return nil
}
