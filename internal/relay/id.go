// internal/relay/id.go
package relay

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	apperrors "certification-intake/internal/common/errors"
	"certification-intake/internal/common/logger"
	"certification-intake/internal/common/metrics"
)

// DefaultIDPrefix is prepended to the millisecond timestamp of every id.
const DefaultIDPrefix = "CERT-S-"

// reservationKeyPrefix namespaces reserved ids in the shared store.
const reservationKeyPrefix = "intake:id:"

// maxReserveAttempts bounds how many consecutive milliseconds are tried when
// other replicas already hold the candidate ids.
const maxReserveAttempts = 16

// IDIssuer hands out application ids of the form <prefix><unix-ms>.
type IDIssuer interface {
	Issue(ctx context.Context) (string, error)
}

// LocalIssuer issues strictly increasing ids within one process. A second
// id in the same millisecond takes the next millisecond.
type LocalIssuer struct {
	prefix string
	now    func() time.Time

	mu   sync.Mutex
	last int64
}

func NewLocalIssuer(prefix string) *LocalIssuer {
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	return &LocalIssuer{prefix: prefix, now: time.Now}
}

func (l *LocalIssuer) Issue(context.Context) (string, error) {
	return l.format(l.next()), nil
}

func (l *LocalIssuer) next() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	ms := l.now().UnixMilli()
	if ms <= l.last {
		ms = l.last + 1
	}
	l.last = ms
	return ms
}

func (l *LocalIssuer) format(ms int64) string {
	return l.prefix + strconv.FormatInt(ms, 10)
}

// Reserver claims a key once across all replicas.
type Reserver interface {
	Reserve(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
}

// SharedIssuer reserves every locally issued id in a shared store so that
// replicas never return the same id. When the store fails it degrades to
// the local id and logs a warning.
type SharedIssuer struct {
	local  *LocalIssuer
	store  Reserver
	ttl    time.Duration
	logger logger.Logger
}

func NewSharedIssuer(local *LocalIssuer, store Reserver, ttl time.Duration, log logger.Logger) *SharedIssuer {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &SharedIssuer{local: local, store: store, ttl: ttl, logger: log}
}

func (s *SharedIssuer) Issue(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxReserveAttempts; attempt++ {
		id := s.local.format(s.local.next())

		ok, err := s.store.Reserve(ctx, reservationKeyPrefix+id, 1, s.ttl)
		if err != nil {
			metrics.IDReservationFallbacks.Inc()
			s.logger.Warn("Application id reservation unavailable, using local id", map[string]interface{}{
				"applicationId": id,
				"error":         err,
			})
			return id, nil
		}
		if ok {
			return id, nil
		}
		s.logger.Debug("Application id already taken", map[string]interface{}{
			"applicationId": id,
			"attempt":       attempt + 1,
		})
	}
	return "", apperrors.NewIDReservationFailedError(errIDsExhausted)
}

var errIDsExhausted = fmt.Errorf("no free application id after %d attempts", maxReserveAttempts)
