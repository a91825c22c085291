package core_test

import (
	"testing"

	"partsdesk/internal/core"
)

func TestPOStatusTransitions(t *testing.T) {
	tests := []struct {
		from    core.POStatus
		to      core.POStatus
		allowed bool
	}{
		{core.POPending, core.POOrdered, true},
		{core.POPending, core.POCancelled, true},
		{core.POPending, core.POReceived, false},
		{core.POOrdered, core.POReceived, true},
		{core.POOrdered, core.POCancelled, true},
		{core.POOrdered, core.POPending, false},
		{core.POReceived, core.POCancelled, false},
		{core.POCancelled, core.POOrdered, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: CanTransition = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
		_, err := tt.from.Transition(tt.to)
		if tt.allowed && err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tt.from, tt.to, err)
		}
		if !tt.allowed && err == nil {
			t.Errorf("%s -> %s: expected error, got nil", tt.from, tt.to)
		}
	}
}

func TestProductionStatusTransitions(t *testing.T) {
	tests := []struct {
		from    core.ProductionStatus
		to      core.ProductionStatus
		allowed bool
	}{
		{core.ProductionPlanned, core.ProductionInProgress, true},
		{core.ProductionPlanned, core.ProductionOnHold, true},
		{core.ProductionPlanned, core.ProductionCancelled, true},
		{core.ProductionPlanned, core.ProductionCompleted, false},
		{core.ProductionInProgress, core.ProductionCompleted, true},
		{core.ProductionInProgress, core.ProductionOnHold, true},
		{core.ProductionInProgress, core.ProductionCancelled, true},
		{core.ProductionInProgress, core.ProductionPlanned, false},
		{core.ProductionOnHold, core.ProductionPlanned, true},
		{core.ProductionOnHold, core.ProductionInProgress, true},
		{core.ProductionOnHold, core.ProductionCancelled, true},
		{core.ProductionOnHold, core.ProductionCompleted, false},
		{core.ProductionCompleted, core.ProductionInProgress, false},
		{core.ProductionCompleted, core.ProductionCancelled, false},
		{core.ProductionCancelled, core.ProductionPlanned, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: CanTransition = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

// A build that goes on hold mid-run resumes into IN_PROGRESS and can still
// complete with a partial quantity.
func TestProductionStatus_HoldResumeCompletePath(t *testing.T) {
	path := []core.ProductionStatus{
		core.ProductionInProgress,
		core.ProductionOnHold,
		core.ProductionInProgress,
		core.ProductionCompleted,
	}
	status := core.ProductionPlanned
	for _, next := range path {
		var err error
		status, err = status.Transition(next)
		if err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
	}
	if !status.Terminal() {
		t.Errorf("expected %s to be terminal", status)
	}
}

func TestProductionStatusTerminal(t *testing.T) {
	terminal := map[core.ProductionStatus]bool{
		core.ProductionPlanned:    false,
		core.ProductionInProgress: false,
		core.ProductionOnHold:     false,
		core.ProductionCompleted:  true,
		core.ProductionCancelled:  true,
	}
	for status, want := range terminal {
		if got := status.Terminal(); got != want {
			t.Errorf("%s: Terminal = %v, want %v", status, got, want)
		}
	}
}

func TestSalesStatusTransitions(t *testing.T) {
	tests := []struct {
		from    core.SalesStatus
		to      core.SalesStatus
		allowed bool
	}{
		{core.SalesPending, core.SalesFulfilled, true},
		{core.SalesPending, core.SalesCancelled, true},
		{core.SalesFulfilled, core.SalesCancelled, false},
		{core.SalesCancelled, core.SalesPending, false},
		{core.SalesFulfilled, core.SalesPending, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: CanTransition = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}
