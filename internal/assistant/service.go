// Package assistant answers hospital front-desk queries: it normalizes the
// text, asks the intent extractor what is wanted, and runs one handler over
// a fresh snapshot of the hospital tables.
package assistant

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/swasthyasathi/internal/intent"
	"github.com/wolfman30/swasthyasathi/internal/observability/metrics"
	"github.com/wolfman30/swasthyasathi/internal/phrases"
	"github.com/wolfman30/swasthyasathi/internal/records"
	"github.com/wolfman30/swasthyasathi/pkg/logging"
)

const (
	msgSomethingWentWrong = "⚠️ Something went wrong while handling your request."
	msgNotUnderstood      = "🤖 Sorry, I didn't understand the query."
)

var tracer = otel.Tracer("swasthyasathi.internal.assistant")

// Extractor produces an intent record for normalized query text.
type Extractor interface {
	Extract(ctx context.Context, text string) intent.Result
}

// Service is the single entry point for answering queries.
type Service struct {
	store     records.Store
	names     records.Names
	extractor Extractor
	logger    *logging.Logger
	metrics   *metrics.AssistantMetrics
	now       func() time.Time
	loc       *time.Location
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records per-query outcomes.
func WithMetrics(m *metrics.AssistantMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the clock used for discharge dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone discharge dates are stamped in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService creates the assistant over store and the tables in names.
func NewService(store records.Store, names records.Names, extractor Extractor, opts ...Option) *Service {
	if store == nil {
		panic("assistant: store cannot be nil")
	}
	if extractor == nil {
		panic("assistant: extractor cannot be nil")
	}
	s := &Service{
		store:     store,
		names:     names,
		extractor: extractor,
		logger:    logging.Default(),
		now:       time.Now,
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Respond answers one query. It always returns a message; failures are
// logged and reported to the user as text.
func (s *Service) Respond(ctx context.Context, query string) (reply string) {
	ctx, span := tracer.Start(ctx, "assistant.respond")
	defer span.End()

	intentName := intent.IntentUnknown
	outcome := "answered"
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while answering query", "panic", fmt.Sprint(r), "intent", intentName)
			span.RecordError(fmt.Errorf("assistant: panic: %v", r))
			reply = msgSomethingWentWrong
			outcome = "error"
		}
		span.SetAttributes(attribute.String("intent", intentName), attribute.String("outcome", outcome))
		s.metrics.ObserveQuery(intentName, outcome)
		s.logger.Debug("query answered", "intent", intentName, "outcome", outcome, "duration_ms", time.Since(start).Milliseconds())
	}()

	normalized := phrases.Normalize(query)

	snap, err := records.LoadSnapshot(ctx, s.store, s.names)
	if err != nil {
		s.logger.Error("failed to load hospital tables", "error", err)
		span.RecordError(err)
		outcome = "error"
		return msgSomethingWentWrong
	}

	q := intent.Decode(s.extractor.Extract(ctx, normalized))
	intentName = q.IntentName()

	reply, err = s.dispatch(ctx, snap, q)
	if err != nil {
		s.logger.Error("handler failed", "intent", intentName, "error", err)
		span.RecordError(err, trace.WithStackTrace(false))
		outcome = "error"
		return msgSomethingWentWrong
	}
	if _, ok := q.(intent.Unknown); ok {
		outcome = "fallback"
	}
	return reply
}

func (s *Service) dispatch(ctx context.Context, snap *records.Snapshot, q intent.Query) (string, error) {
	switch q := q.(type) {
	case intent.BedStatus:
		return availableBeds(snap.Beds, q.Ward), nil
	case intent.DoctorInfo:
		return doctorInfo(snap.Doctors, q.Doctor), nil
	case intent.MedicineInfo:
		return medicineInfo(snap.Medicines, q.Medicine), nil
	case intent.PatientStatus:
		return patientStatus(snap.Patients, q.Name), nil
	case intent.Discharge:
		return s.discharge(ctx, snap, q.Name)
	case intent.UpdateDoctorAvailability:
		return s.markDoctorUnavailable(ctx, snap.Doctors, q.Doctor)
	case intent.Unknown:
		return notUnderstood(q.Err), nil
	default:
		return notUnderstood(nil), nil
	}
}

func notUnderstood(err error) string {
	if err == nil {
		return msgNotUnderstood
	}
	return fmt.Sprintf("%s Error: %s", msgNotUnderstood, err.Error())
}
