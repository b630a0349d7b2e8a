package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewSchedulingMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)

	m.ObserveDecision("schedule", true, "")
	m.ObserveDecision("schedule", false, "scheduling_conflict")
	m.ObserveCascadeDelete(true)
	m.ObserveStoreLatency("insert_appointment", 0.02)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 3 {
		t.Fatalf("expected 3 metric families, got %d", len(families))
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *SchedulingMetrics
	m.ObserveDecision("schedule", false, "incomplete_input")
	m.ObserveCascadeDelete(false)
	m.ObserveStoreLatency("delete_customer", 0.1)
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewSchedulingMetrics(reg)

	defer func() {
		if recover() == nil {
			t.Fatal("expected MustRegister panic on duplicate registration")
		}
	}()
	NewSchedulingMetrics(reg)
}
