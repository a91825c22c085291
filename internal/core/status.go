package core

import "fmt"

// POStatus is the purchase order lifecycle state.
//
//	PENDING → ORDERED → RECEIVED
//	PENDING | ORDERED → CANCELLED
type POStatus string

const (
	POPending   POStatus = "PENDING"
	POOrdered   POStatus = "ORDERED"
	POReceived  POStatus = "RECEIVED"
	POCancelled POStatus = "CANCELLED"
)

var poTransitions = map[POStatus][]POStatus{
	POPending: {POOrdered, POCancelled},
	POOrdered: {POReceived, POCancelled},
}

// CanTransition reports whether the status may move to next.
func (s POStatus) CanTransition(next POStatus) bool {
	for _, t := range poTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Transition returns next if the move is legal, or an error naming both states.
func (s POStatus) Transition(next POStatus) (POStatus, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("purchase order cannot move from %s to %s", s, next)
	}
	return next, nil
}

// ProductionStatus is the kit production order lifecycle state.
//
//	PLANNED → IN_PROGRESS → COMPLETED
//	PLANNED | IN_PROGRESS → ON_HOLD | CANCELLED
//	ON_HOLD → resumes to its pre-hold state, or CANCELLED
type ProductionStatus string

const (
	ProductionPlanned    ProductionStatus = "PLANNED"
	ProductionInProgress ProductionStatus = "IN_PROGRESS"
	ProductionCompleted  ProductionStatus = "COMPLETED"
	ProductionOnHold     ProductionStatus = "ON_HOLD"
	ProductionCancelled  ProductionStatus = "CANCELLED"
)

var productionTransitions = map[ProductionStatus][]ProductionStatus{
	ProductionPlanned:    {ProductionInProgress, ProductionOnHold, ProductionCancelled},
	ProductionInProgress: {ProductionCompleted, ProductionOnHold, ProductionCancelled},
	ProductionOnHold:     {ProductionPlanned, ProductionInProgress, ProductionCancelled},
}

func (s ProductionStatus) CanTransition(next ProductionStatus) bool {
	for _, t := range productionTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

func (s ProductionStatus) Transition(next ProductionStatus) (ProductionStatus, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("production order cannot move from %s to %s", s, next)
	}
	return next, nil
}

// Terminal reports whether no further transitions are possible.
func (s ProductionStatus) Terminal() bool {
	return len(productionTransitions[s]) == 0
}

// SalesStatus is the sales order lifecycle state.
type SalesStatus string

const (
	SalesPending   SalesStatus = "PENDING"
	SalesFulfilled SalesStatus = "FULFILLED"
	SalesCancelled SalesStatus = "CANCELLED"
)

var salesTransitions = map[SalesStatus][]SalesStatus{
	SalesPending: {SalesFulfilled, SalesCancelled},
}

func (s SalesStatus) CanTransition(next SalesStatus) bool {
	for _, t := range salesTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

func (s SalesStatus) Transition(next SalesStatus) (SalesStatus, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("sales order cannot move from %s to %s", s, next)
	}
	return next, nil
}

// PaymentStatus tracks how much of a sales order has been paid.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "UNPAID"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
)

// WorkflowStatus gates whether a supplier order is progressing or blocked
// pending manual intervention.
type WorkflowStatus string

const (
	WorkflowActive WorkflowStatus = "ACTIVE"
	WorkflowPaused WorkflowStatus = "PAUSED"
)
