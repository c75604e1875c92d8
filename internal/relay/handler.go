// internal/relay/handler.go
package relay

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "certification-intake/internal/common/errors"
	httpclient "certification-intake/internal/common/http"
	"certification-intake/internal/common/logger"
	"certification-intake/internal/common/metrics"
	"certification-intake/internal/common/observability"
	"certification-intake/internal/common/validation"
)

// SuccessMessage is returned with every accepted submission.
const SuccessMessage = "Формата е изпратена успешно!"

// processedAtLayout is RFC 3339 in UTC with millisecond precision.
const processedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// maxBodyBytes caps the inbound submission.
const maxBodyBytes = 10 << 20

// Outcome labels for metrics.
const (
	OutcomeSuccess     = "success"
	OutcomeMalformed   = "malformed"
	OutcomeConfig      = "configuration"
	OutcomeRejected    = "rejected"
	OutcomeUnreachable = "unreachable"
	OutcomeInternal    = "internal"
)

// submissionSchema accepts any JSON object whose metadata, when present,
// is an object or null.
var submissionSchema = validation.MustCompile(map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"metadata": map[string]interface{}{"type": []interface{}{"object", "null"}},
	},
})

// Handler serves POST /api/submit.
type Handler struct {
	issuer      IDIssuer
	destination Destination
	logger      logger.Logger
	obs         *observability.Observability
	now         func() time.Time
}

// NewHandler builds the relay handler. obs may be nil.
func NewHandler(issuer IDIssuer, destination Destination, log logger.Logger, obs *observability.Observability) *Handler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Handler{
		issuer:      issuer,
		destination: destination,
		logger:      log,
		obs:         obs,
		now:         time.Now,
	}
}

// ServeHTTP rejects anything but POST.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		apperrors.WriteJSON(w, http.StatusMethodNotAllowed, apperrors.Envelope{
			Success: false,
			Message: http.StatusText(http.StatusMethodNotAllowed),
		})
		return
	}
	h.HandleSubmit(w, r)
}

// HandleSubmit stamps the inbound document with metadata.applicationId and
// metadata.processedAt and forwards it to the destination.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := httpclient.RequestID(ctx)
	log := h.logger.With(map[string]interface{}{"requestId": requestID})

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.fail(w, r, log, OutcomeMalformed, apperrors.NewMalformedRequestError(fmt.Errorf("read body: %w", err)))
		return
	}

	doc, err := decodeSubmission(body)
	if err != nil {
		h.fail(w, r, log, OutcomeMalformed, err)
		return
	}

	applicationID, err := h.issuer.Issue(ctx)
	if err != nil {
		h.fail(w, r, log, OutcomeInternal, err)
		return
	}
	log = log.With(map[string]interface{}{"applicationId": applicationID})

	stamped, err := stamp(doc, applicationID, h.now())
	if err != nil {
		h.fail(w, r, log, OutcomeInternal, apperrors.NewInternalError(err))
		return
	}

	log.Info("Processing submission", map[string]interface{}{
		"destination": h.destination.Name(),
		"payload":     string(stamped),
	})

	if err := h.deliver(r, applicationID, requestID, stamped); err != nil {
		h.fail(w, r, log, outcomeOf(err), err)
		return
	}

	log.Info("Submission delivered", map[string]interface{}{
		"destination": h.destination.Name(),
	})
	metrics.SubmissionsTotal.WithLabelValues(OutcomeSuccess).Inc()
	h.obs.RecordSubmission(ctx, h.destination.Name(), OutcomeSuccess)

	apperrors.WriteJSON(w, http.StatusOK, apperrors.Envelope{
		Success: true,
		Message: SuccessMessage,
		ID:      applicationID,
	})
}

func (h *Handler) deliver(r *http.Request, applicationID, requestID string, body []byte) (err error) {
	name := h.destination.Name()

	ctx, end := h.obs.StartSpan(r.Context(), "relay.deliver",
		attribute.String("destination", name),
		attribute.String("application.id", applicationID),
	)
	defer func() { end(err) }()

	inFlight := metrics.RelayInFlight.WithLabelValues(name)
	inFlight.Inc()
	defer inFlight.Dec()

	start := time.Now()
	err = h.destination.Deliver(ctx, Delivery{
		ApplicationID: applicationID,
		RequestID:     requestID,
		Body:          body,
	})
	elapsed := time.Since(start)

	outcome := OutcomeSuccess
	if err != nil {
		outcome = outcomeOf(err)
	}
	metrics.RelayDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	h.obs.RecordRelayDuration(ctx, elapsed, name, outcome)
	return err
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, log logger.Logger, outcome string, err error) {
	metrics.SubmissionsTotal.WithLabelValues(outcome).Inc()
	h.obs.RecordSubmission(r.Context(), h.destination.Name(), outcome)
	apperrors.NewErrorHandler(log).Write(w, err)
}

// decodeSubmission parses body as a JSON object. Members stay raw JSON so
// numbers and nested values are forwarded without re-typing.
func decodeSubmission(body []byte) (map[string]json.RawMessage, error) {
	result, err := submissionSchema.ValidateDocument(body)
	if err != nil {
		return nil, apperrors.NewMalformedRequestError(err)
	}
	if !result.Valid {
		return nil, apperrors.NewMalformedRequestError(result)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, apperrors.NewMalformedRequestError(err)
	}
	if doc == nil {
		doc = make(map[string]json.RawMessage)
	}
	return doc, nil
}

// stamp merges applicationId and processedAt into doc.metadata, replacing
// client values of the same keys and keeping all other metadata keys.
func stamp(doc map[string]json.RawMessage, applicationID string, now time.Time) ([]byte, error) {
	metadata := make(map[string]json.RawMessage)
	if raw, ok := doc["metadata"]; ok && strings.TrimSpace(string(raw)) != "null" {
		if err := json.Unmarshal(raw, &metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}

	id, err := json.Marshal(applicationID)
	if err != nil {
		return nil, err
	}
	processedAt, err := json.Marshal(now.UTC().Format(processedAtLayout))
	if err != nil {
		return nil, err
	}
	metadata["applicationId"] = id
	metadata["processedAt"] = processedAt

	rawMetadata, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage, len(doc)+1)
	for k, v := range doc {
		out[k] = v
	}
	out["metadata"] = rawMetadata
	return json.Marshal(out)
}

func outcomeOf(err error) string {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeMalformedRequest:
		return OutcomeMalformed
	case apperrors.ErrCodeConfiguration:
		return OutcomeConfig
	case apperrors.ErrCodeUpstreamRejected:
		return OutcomeRejected
	case apperrors.ErrCodeUpstreamUnreachable:
		return OutcomeUnreachable
	default:
		return OutcomeInternal
	}
}
