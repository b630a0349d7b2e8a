package scheduling

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/apptbook/scheduling-platform/internal/observability/metrics"
	"github.com/apptbook/scheduling-platform/internal/timeutil"
	"github.com/apptbook/scheduling-platform/pkg/logging"
)

var schedulingTracer = otel.Tracer("apptbook.internal.scheduling")

// Store is the persistence boundary the orchestrator drives. *Repository
// satisfies it; tests substitute fakes.
type Store interface {
	NextAppointmentID(ctx context.Context) (int, error)
	Insert(ctx context.Context, appt *Appointment) error
	Update(ctx context.Context, appt *Appointment) error
	Delete(ctx context.Context, id int) error
	ListForCustomer(ctx context.Context, customerID int) ([]Appointment, error)
}

// Service runs the end-to-end decision for saving an appointment. Either
// every check passes and the store write is attempted, or nothing is
// mutated.
type Service struct {
	store   Store
	norm    *timeutil.Normalizer
	logger  *logging.Logger
	metrics *metrics.SchedulingMetrics
	now     func() time.Time
}

// NewService constructs the scheduling orchestrator.
func NewService(store Store, norm *timeutil.Normalizer, logger *logging.Logger, m *metrics.SchedulingMetrics) *Service {
	if store == nil {
		panic("scheduling: store required")
	}
	if norm == nil {
		norm = timeutil.New()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:   store,
		norm:    norm,
		logger:  logger,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the wall clock used for audit stamps. Tests use this
// to pin timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Schedule validates and persists a new appointment on behalf of actor. A
// fresh id is allocated only after every check passes.
func (s *Service) Schedule(ctx context.Context, candidate Appointment, actor string) (Decision, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.schedule")
	defer span.End()
	span.SetAttributes(attribute.Int("apptbook.customer_id", candidate.CustomerID))

	candidate.ID = 0
	candidate.Start = s.norm.ToStorage(candidate.Start)
	candidate.End = s.norm.ToStorage(candidate.End)

	decision, err := s.decide(ctx, "schedule", candidate)
	if err != nil || !decision.Accepted {
		return decision, err
	}

	id, err := s.store.NextAppointmentID(ctx)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveDecision("schedule", false, string(ReasonStoreUnavailable))
		return rejected(ReasonStoreUnavailable), fmt.Errorf("scheduling: allocate id: %w", err)
	}

	stamp := s.now()
	candidate.ID = id
	candidate.CreatedAt = stamp
	candidate.CreatedBy = actor
	candidate.UpdatedAt = stamp
	candidate.UpdatedBy = actor

	if err := s.store.Insert(ctx, &candidate); err != nil {
		span.RecordError(err)
		s.metrics.ObserveDecision("schedule", false, string(ReasonStoreUnavailable))
		return rejected(ReasonStoreUnavailable), err
	}

	s.metrics.ObserveDecision("schedule", true, "")
	s.logger.Info("appointment scheduled",
		"appointment_id", candidate.ID,
		"customer_id", candidate.CustomerID,
		"actor", actor,
	)
	decision.Appointment = &candidate
	return decision, nil
}

// Reschedule validates and persists an edit to an existing appointment. The
// id and creation audit pair are preserved; only the modification pair is
// stamped.
func (s *Service) Reschedule(ctx context.Context, candidate Appointment, actor string) (Decision, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.reschedule")
	defer span.End()
	span.SetAttributes(
		attribute.Int("apptbook.appointment_id", candidate.ID),
		attribute.Int("apptbook.customer_id", candidate.CustomerID),
	)

	if candidate.ID <= 0 {
		s.metrics.ObserveDecision("reschedule", false, string(ReasonIncompleteInput))
		return rejected(ReasonIncompleteInput), nil
	}
	candidate.Start = s.norm.ToStorage(candidate.Start)
	candidate.End = s.norm.ToStorage(candidate.End)

	decision, err := s.decide(ctx, "reschedule", candidate)
	if err != nil || !decision.Accepted {
		return decision, err
	}

	candidate.UpdatedAt = s.now()
	candidate.UpdatedBy = actor

	if err := s.store.Update(ctx, &candidate); err != nil {
		span.RecordError(err)
		s.metrics.ObserveDecision("reschedule", false, string(ReasonStoreUnavailable))
		return rejected(ReasonStoreUnavailable), err
	}

	s.metrics.ObserveDecision("reschedule", true, "")
	s.logger.Info("appointment rescheduled",
		"appointment_id", candidate.ID,
		"customer_id", candidate.CustomerID,
		"actor", actor,
	)
	decision.Appointment = &candidate
	return decision, nil
}

// Cancel deletes a single appointment by id.
func (s *Service) Cancel(ctx context.Context, id int) error {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.cancel")
	defer span.End()
	span.SetAttributes(attribute.Int("apptbook.appointment_id", id))

	if err := s.store.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	s.logger.Info("appointment cancelled", "appointment_id", id)
	return nil
}

// decide runs the pure validation pipeline. The store is only consulted
// once the local checks pass, so an unavailable store never masks an
// input-level rejection.
func (s *Service) decide(ctx context.Context, operation string, candidate Appointment) (Decision, error) {
	decision := Validate(candidate, nil, s.norm)
	if decision.Accepted {
		existing, err := s.store.ListForCustomer(ctx, candidate.CustomerID)
		if err != nil {
			s.metrics.ObserveDecision(operation, false, string(ReasonStoreUnavailable))
			return rejected(ReasonStoreUnavailable), fmt.Errorf("scheduling: load existing appointments: %w", err)
		}
		decision = Validate(candidate, existing, s.norm)
	}
	if !decision.Accepted {
		s.metrics.ObserveDecision(operation, false, string(decision.Reason))
		s.logger.Info("appointment rejected",
			"customer_id", candidate.CustomerID,
			"reason", decision.Reason,
		)
	}
	return decision, nil
}
