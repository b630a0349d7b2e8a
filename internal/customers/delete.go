package customers

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/apptbook/scheduling-platform/internal/observability/metrics"
	"github.com/apptbook/scheduling-platform/internal/scheduling"
	"github.com/apptbook/scheduling-platform/pkg/logging"
)

var customersTracer = otel.Tracer("apptbook.internal.customers")

// appointmentStore is the slice of the scheduling store the deleter needs.
type appointmentStore interface {
	ListForCustomer(ctx context.Context, customerID int) ([]scheduling.Appointment, error)
	Delete(ctx context.Context, id int) error
}

// customerStore deletes the customer row itself.
type customerStore interface {
	Delete(ctx context.Context, id int) error
}

// DeleteResult reports how far a cascading deletion got.
type DeleteResult struct {
	CustomerID          int `json:"customer_id"`
	AppointmentsDeleted int `json:"appointments_deleted"`
}

// CascadeDeleter removes a customer's appointments before the customer row.
// If any dependent delete fails the customer row is left in place, so the
// store never holds an appointment without its owner.
type CascadeDeleter struct {
	appointments appointmentStore
	customers    customerStore
	logger       *logging.Logger
	metrics      *metrics.SchedulingMetrics
}

// NewCascadeDeleter wires the deletion coordinator.
func NewCascadeDeleter(appointments appointmentStore, customers customerStore, logger *logging.Logger, m *metrics.SchedulingMetrics) *CascadeDeleter {
	if appointments == nil || customers == nil {
		panic("customers: appointment and customer stores required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CascadeDeleter{
		appointments: appointments,
		customers:    customers,
		logger:       logger,
		metrics:      m,
	}
}

// DeleteCustomer removes every appointment owned by customerID, then the
// customer row. The returned DeleteResult is valid even on error and
// reports the dependents removed before the failure.
func (d *CascadeDeleter) DeleteCustomer(ctx context.Context, customerID int) (DeleteResult, error) {
	ctx, span := customersTracer.Start(ctx, "customers.cascade_delete")
	defer span.End()
	span.SetAttributes(attribute.Int("apptbook.customer_id", customerID))

	result := DeleteResult{CustomerID: customerID}

	appts, err := d.appointments.ListForCustomer(ctx, customerID)
	if err != nil {
		span.RecordError(err)
		d.metrics.ObserveCascadeDelete(false)
		return result, fmt.Errorf("customers: list dependents of %d: %w", customerID, err)
	}

	for _, appt := range appts {
		if err := d.appointments.Delete(ctx, appt.ID); err != nil {
			// Already gone is fine; anything else aborts before the
			// customer row so no appointment is ever orphaned.
			if errors.Is(err, scheduling.ErrNotFound) {
				continue
			}
			span.RecordError(err)
			d.metrics.ObserveCascadeDelete(false)
			return result, fmt.Errorf("customers: delete dependent appointment %d (removed %d of %d): %w",
				appt.ID, result.AppointmentsDeleted, len(appts), err)
		}
		result.AppointmentsDeleted++
	}

	if err := d.customers.Delete(ctx, customerID); err != nil {
		span.RecordError(err)
		d.metrics.ObserveCascadeDelete(false)
		return result, err
	}

	d.metrics.ObserveCascadeDelete(true)
	d.logger.Info("customer deleted",
		"customer_id", customerID,
		"appointments_deleted", result.AppointmentsDeleted,
	)
	return result, nil
}
