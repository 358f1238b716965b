package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/treadline/backend/internal/domain/shared"
	"github.com/treadline/backend/internal/domain/shared/valueobject"
)

// OrderLine represents one entry within an order. A line belongs to
// exactly one order and is destroyed with it.
type OrderLine struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	ProductCode string
	Location    string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal // Quantity * UnitPrice, always recomputed
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "order_lines"
}

// NewOrderLine creates a new order line
func NewOrderLine(orderID, productID uuid.UUID, productName, productCode, location string, quantity int64, unitPrice decimal.Decimal) (*OrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	qty := decimal.NewFromInt(quantity)

	return &OrderLine{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		ProductCode: productCode,
		Location:    location,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    qty.Mul(unitPrice),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateQuantity updates the line quantity and recomputes the subtotal
func (l *OrderLine) UpdateQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	l.Quantity = quantity
	l.Subtotal = decimal.NewFromInt(quantity).Mul(l.UnitPrice)
	l.UpdatedAt = time.Now()

	return nil
}

// UpdateUnitPrice updates the unit price and recomputes the subtotal
func (l *OrderLine) UpdateUnitPrice(unitPrice decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	l.UnitPrice = unitPrice
	l.Subtotal = decimal.NewFromInt(l.Quantity).Mul(unitPrice)
	l.UpdatedAt = time.Now()

	return nil
}

// GetSubtotalMoney returns the subtotal as Money value object
func (l *OrderLine) GetSubtotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(l.Subtotal)
}

// Order represents a sales, purchase or production order aggregate root.
// The three kinds share one structure and differ in counterparty rules,
// lifecycle and inventory side effects.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber      string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Kind             OrderKind
	CounterpartyID   *uuid.UUID // Customer or supplier; nil for production orders
	CounterpartyName string
	Lines            []OrderLine     `gorm:"foreignKey:OrderID"`
	TotalAmount      decimal.Decimal // Sum of line subtotals, derived
	Status           OrderStatus
	DueDate          *time.Time // Required for production orders
	Remark           string
	ApprovedAt       *time.Time
	ReceivedAt       *time.Time
	StartedAt        *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
	CancelReason     string
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in the kind's initial status.
// Sales and purchase orders require a counterparty; production orders
// must not carry one and require a due date instead.
func NewOrder(kind OrderKind, orderNumber string, counterpartyID *uuid.UUID, counterpartyName string, createdBy uuid.UUID, dueDate *time.Time) (*Order, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown order kind")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}

	switch kind {
	case OrderKindSales, OrderKindPurchase:
		if counterpartyID == nil || *counterpartyID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty is required for sales and purchase orders")
		}
		if counterpartyName == "" {
			return nil, shared.NewDomainError("INVALID_COUNTERPARTY_NAME", "Counterparty name cannot be empty")
		}
	case OrderKindProduction:
		if counterpartyID != nil {
			return nil, shared.NewDomainError("INVALID_COUNTERPARTY", "Production orders cannot have a counterparty")
		}
		if dueDate == nil {
			return nil, shared.NewDomainError("INVALID_DUE_DATE", "Production orders require a due date")
		}
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRootWithCreator(createdBy),
		OrderNumber:       orderNumber,
		Kind:              kind,
		CounterpartyID:    counterpartyID,
		CounterpartyName:  counterpartyName,
		Lines:             make([]OrderLine, 0),
		TotalAmount:       decimal.Zero,
		Status:            kind.InitialStatus(),
		DueDate:           dueDate,
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// AddLine adds a new line to the order and recomputes the total.
// Only allowed in the kind's initial status.
func (o *Order) AddLine(productID uuid.UUID, productName, productCode, location string, quantity int64, unitPrice decimal.Decimal) (*OrderLine, error) {
	if !o.CanModify() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to an order past its initial status")
	}

	for _, line := range o.Lines {
		if line.ProductID == productID && line.Location == location {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order, update quantity instead")
		}
	}

	line, err := NewOrderLine(o.ID, productID, productName, productCode, location, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Lines = append(o.Lines, *line)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return line, nil
}

// UpdateLineQuantity updates the quantity of an existing line
func (o *Order) UpdateLineQuantity(lineID uuid.UUID, quantity int64) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update lines of an order past its initial status")
	}

	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			if err := o.Lines[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// UpdateLinePrice updates the unit price of an existing line
func (o *Order) UpdateLinePrice(lineID uuid.UUID, unitPrice decimal.Decimal) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update lines of an order past its initial status")
	}

	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			if err := o.Lines[idx].UpdateUnitPrice(unitPrice); err != nil {
				return err
			}
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// RemoveLine removes a line from the order and recomputes the total
func (o *Order) RemoveLine(lineID uuid.UUID) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from an order past its initial status")
	}

	for idx, line := range o.Lines {
		if line.ID == lineID {
			o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// SetRemark sets the order remark
func (o *Order) SetRemark(remark string) {
	o.Remark = remark
	o.UpdatedAt = time.Now()
}

// TransitionTo moves the order to the target status if the kind's state
// machine allows it. Inventory side effects bound to transitions are the
// application service's responsibility and run only after this succeeds.
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if !o.Kind.CanTransition(o.Status, target) {
		return &InvalidTransitionError{Kind: o.Kind, From: o.Status, To: target}
	}

	from := o.Status
	now := time.Now()
	o.Status = target
	o.UpdatedAt = now
	o.IncrementVersion()

	switch target {
	case OrderStatusApproved:
		o.ApprovedAt = &now
	case OrderStatusReceived:
		o.ReceivedAt = &now
	case OrderStatusInProgress:
		o.StartedAt = &now
	case OrderStatusCompleted:
		o.CompletedAt = &now
	case OrderStatusCancelled:
		o.CancelledAt = &now
	}

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target))

	return nil
}

// Cancel cancels the order with a reason
func (o *Order) Cancel(reason string) error {
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if err := o.TransitionTo(OrderStatusCancelled); err != nil {
		return err
	}

	o.CancelReason = reason

	return nil
}

// CheckDeletable returns an IllegalDeleteError if the order's stock
// effects are committed and cannot be reversed by deletion
func (o *Order) CheckDeletable() error {
	if !o.Kind.CanDelete(o.Status) {
		return &IllegalDeleteError{OrderID: o.ID, Kind: o.Kind, Status: o.Status}
	}
	return nil
}

// recalculateTotal recomputes the order total from its line subtotals
func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Subtotal)
	}
	o.TotalAmount = total
}

// Total returns the derived order total, recomputed from the lines
func (o *Order) Total() decimal.Decimal {
	o.recalculateTotal()
	return o.TotalAmount
}

// GetTotalMoney returns the order total as Money
func (o *Order) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.Total())
}

// LineCount returns the number of lines in the order
func (o *Order) LineCount() int {
	return len(o.Lines)
}

// TotalQuantity returns the sum of all line quantities
func (o *Order) TotalQuantity() int64 {
	var total int64
	for _, line := range o.Lines {
		total += line.Quantity
	}
	return total
}

// ConsumesStockOnCreation returns true for kinds that reserve stock when
// the order is created
func (o *Order) ConsumesStockOnCreation() bool {
	return o.Kind == OrderKindSales
}

// IsTerminal returns true if the order is in a terminal status for its kind
func (o *Order) IsTerminal() bool {
	return o.Kind.IsTerminal(o.Status)
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// CanModify returns true if the order lines can still be edited
func (o *Order) CanModify() bool {
	return o.Status == o.Kind.InitialStatus()
}

// GetLine returns a line by its ID
func (o *Order) GetLine(lineID uuid.UUID) *OrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// GetLineByProduct returns a line by product ID and location
func (o *Order) GetLineByProduct(productID uuid.UUID, location string) *OrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ProductID == productID && o.Lines[idx].Location == location {
			return &o.Lines[idx]
		}
	}
	return nil
}
