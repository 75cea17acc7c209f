package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRegister_SkipsAlreadyRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := register(reg, collectors()...); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if err := register(reg, collectors()...); err != nil {
		t.Fatalf("repeated registration must be a no-op, got %v", err)
	}
}

func TestRegister_ReportsConflicts(t *testing.T) {
	reg := prometheus.NewRegistry()
	// same fully-qualified name as IngestEvents with a different label set
	clash := prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reservations", Name: "ingest_events_total", Help: "Ingested payloads by format and outcome."},
		[]string{"source"},
	)
	if err := register(reg, clash); err != nil {
		t.Fatalf("register clash: %v", err)
	}
	if err := register(reg, IngestEvents); err == nil {
		t.Fatal("expected a conflict error for mismatched label sets")
	}
}

func TestRegisterDefault_Idempotent(t *testing.T) {
	RegisterDefault()
	RegisterDefault()
}
