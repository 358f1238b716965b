package order

import (
	"fmt"

	"github.com/google/uuid"
)

// OrderKind distinguishes the three order flavors sharing one structure
type OrderKind string

const (
	OrderKindSales      OrderKind = "SALES"
	OrderKindPurchase   OrderKind = "PURCHASE"
	OrderKindProduction OrderKind = "PRODUCTION"
)

// IsValid checks if the kind is a valid OrderKind
func (k OrderKind) IsValid() bool {
	switch k {
	case OrderKindSales, OrderKindPurchase, OrderKindProduction:
		return true
	}
	return false
}

// String returns the string representation of OrderKind
func (k OrderKind) String() string {
	return string(k)
}

// OrderStatus represents the status of an order. Which statuses apply,
// and which transitions are legal, depends on the order kind.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusApproved   OrderStatus = "APPROVED"
	OrderStatusReceived   OrderStatus = "RECEIVED"
	OrderStatusPlanned    OrderStatus = "PLANNED"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusApproved, OrderStatusReceived,
		OrderStatusPlanned, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// transitions holds the legal status transitions per order kind.
// Anything not listed here is illegal, self-transitions included.
var transitions = map[OrderKind]map[OrderStatus][]OrderStatus{
	OrderKindSales: {
		OrderStatusPending: {OrderStatusCompleted, OrderStatusCancelled},
	},
	OrderKindPurchase: {
		OrderStatusPending:  {OrderStatusApproved, OrderStatusCancelled},
		OrderStatusApproved: {OrderStatusReceived, OrderStatusCancelled},
	},
	OrderKindProduction: {
		OrderStatusPlanned:    {OrderStatusInProgress, OrderStatusCancelled},
		OrderStatusInProgress: {OrderStatusCompleted, OrderStatusCancelled},
	},
}

// InitialStatus returns the status every new order of this kind starts in
func (k OrderKind) InitialStatus() OrderStatus {
	if k == OrderKindProduction {
		return OrderStatusPlanned
	}
	return OrderStatusPending
}

// CanTransition reports whether the kind's state machine allows from -> to
func (k OrderKind) CanTransition(from, to OrderStatus) bool {
	for _, target := range transitions[k][from] {
		if target == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions for this kind
func (k OrderKind) IsTerminal(status OrderStatus) bool {
	return len(transitions[k][status]) == 0
}

// CanDelete reports whether an order of this kind may be deleted in the
// given status. Deletion is allowed in the initial status (no stock has
// been committed, or the pending reservation can still be reversed) and
// after cancellation (stock effects already reversed). Deleting a
// RECEIVED or COMPLETED order would desynchronize the ledger from
// history, so it is always rejected.
func (k OrderKind) CanDelete(status OrderStatus) bool {
	return status == k.InitialStatus() || status == OrderStatusCancelled
}

// InvalidTransitionError signals a status change the kind's state machine
// does not allow. No side effects run when this is returned.
type InvalidTransitionError struct {
	Kind OrderKind
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s order transition from %s to %s", e.Kind, e.From, e.To)
}

// IllegalDeleteError signals a delete attempted in a status whose stock
// effects are already committed
type IllegalDeleteError struct {
	OrderID uuid.UUID
	Kind    OrderKind
	Status  OrderStatus
}

func (e *IllegalDeleteError) Error() string {
	return fmt.Sprintf("cannot delete %s order %s in %s status", e.Kind, e.OrderID, e.Status)
}
