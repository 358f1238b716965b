package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/treadline/backend/internal/domain/catalog"
	"github.com/treadline/backend/internal/domain/order"
	"github.com/treadline/backend/internal/domain/shared"
)

// StockLedger is the slice of the inventory ledger the order service
// drives: reservations on sales creation, releases on cancellation and
// rollback, receipts on purchase receipt and production completion.
type StockLedger interface {
	Reserve(ctx context.Context, productID uuid.UUID, location string, quantity int64, reference string) error
	Release(ctx context.Context, productID uuid.UUID, location string, quantity int64, reference string) error
	Receive(ctx context.Context, productID uuid.UUID, location string, quantity int64, reference string) error
	ReverseReceipt(ctx context.Context, productID uuid.UUID, location string, quantity int64, reference string) error
}

// OrderService is the only entry point that creates and transitions
// orders. It is the one place where the order store and the inventory
// ledger must end up consistent, so every stock mutation it performs is
// paired with an exact compensating action for the failure paths.
type OrderService struct {
	orderRepo        order.OrderRepository
	productRepo      catalog.ProductRepository
	ledger           StockLedger
	idempotencyStore shared.IdempotencyStore
	idempotencyTTL   time.Duration
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo order.OrderRepository,
	productRepo catalog.ProductRepository,
	ledger StockLedger,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		ledger:         ledger,
		idempotencyTTL: shared.DefaultIdempotencyConfig().TTL,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables duplicate-request protection for CreateOrder
func (s *OrderService) SetIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) {
	s.idempotencyStore = store
	if ttl > 0 {
		s.idempotencyTTL = ttl
	}
}

// reservation tracks one granted stock reservation within a single call
// so a mid-call failure can be undone precisely
type reservation struct {
	productID uuid.UUID
	location  string
	quantity  int64
}

// CreateOrder creates an order atomically. For sales orders every line
// reserves stock; if any reservation fails, the reservations already
// granted in the same call are released and the order is never
// persisted. If persistence fails after the reservations succeeded, all
// of them are released before the error is surfaced.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest, createdBy uuid.UUID) (*OrderResponse, error) {
	if s.idempotencyStore != nil && req.IdempotencyKey != "" {
		processed, err := s.idempotencyStore.IsProcessed(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if processed {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST", "An order with this idempotency key was already created")
		}
	}

	orderNumber := req.OrderNumber
	if orderNumber == "" {
		orderNumber = generateOrderNumber(req.Kind)
	}

	o, err := order.NewOrder(req.Kind, orderNumber, req.CounterpartyID, req.CounterpartyName, createdBy, req.DueDate)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		o.SetRemark(req.Remark)
	}

	for _, lineReq := range req.Lines {
		product, err := s.productRepo.FindByID(ctx, lineReq.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", fmt.Sprintf("Product %s does not exist", lineReq.ProductID))
			}
			return nil, err
		}

		unitPrice := product.ListPrice
		if lineReq.UnitPrice != nil {
			unitPrice = *lineReq.UnitPrice
		}

		if _, err := o.AddLine(product.ID, product.Name, product.Code, lineReq.Location, lineReq.Quantity, unitPrice); err != nil {
			return nil, err
		}
	}

	// Sales orders consume stock at creation; purchase and production
	// defer their stock effects to the lifecycle transitions.
	var granted []reservation
	if o.ConsumesStockOnCreation() {
		for _, line := range o.Lines {
			if err := s.ledger.Reserve(ctx, line.ProductID, line.Location, line.Quantity, o.OrderNumber); err != nil {
				s.releaseAll(ctx, granted, o.OrderNumber)
				return nil, err
			}
			granted = append(granted, reservation{line.ProductID, line.Location, line.Quantity})
		}
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		s.releaseAll(ctx, granted, o.OrderNumber)
		return nil, err
	}

	if s.idempotencyStore != nil && req.IdempotencyKey != "" {
		if _, err := s.idempotencyStore.MarkProcessed(ctx, req.IdempotencyKey, s.idempotencyTTL); err != nil {
			s.logger.Warn("failed to mark idempotency key",
				zap.String("key", req.IdempotencyKey), zap.Error(err))
		}
	}

	s.publishDomainEvents(ctx, o)

	resp := ToOrderResponse(o)
	return &resp, nil
}

// ChangeStatus drives the order through its lifecycle. The transition is
// validated before any stock side effect runs; a transition the state
// machine rejects performs no work at all. Stock side effects bound to
// the transition are applied with the same compensation discipline as
// CreateOrder, and the order is persisted last.
func (s *OrderService) ChangeStatus(ctx context.Context, orderID uuid.UUID, req ChangeStatusRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	expectedVersion := o.Version
	if req.Status == order.OrderStatusCancelled {
		reason := req.Reason
		if reason == "" {
			reason = "cancelled by user"
		}
		err = o.Cancel(reason)
	} else {
		err = o.TransitionTo(req.Status)
	}
	if err != nil {
		return nil, err
	}

	undo, err := s.applyTransitionStockEffects(ctx, o, req.Status)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o, expectedVersion); err != nil {
		undo(ctx)
		return nil, err
	}

	s.publishDomainEvents(ctx, o)

	resp := ToOrderResponse(o)
	return &resp, nil
}

// DeleteOrder removes an order under the deletion policy: only orders
// whose stock effects are uncommitted or already reversed may go.
// Deleting a pending sales order releases its reservations first.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := o.CheckDeletable(); err != nil {
		return err
	}

	// A pending sales order still holds the reservations taken at
	// creation; return them before the lines disappear. If the delete
	// itself fails the order survives, so the releases are re-reserved
	// and the ledger ends up where it started.
	var released []reservation
	if o.Kind == order.OrderKindSales && o.Status == order.OrderStatusPending {
		for _, line := range o.Lines {
			if err := s.ledger.Release(ctx, line.ProductID, line.Location, line.Quantity, o.OrderNumber); err != nil {
				s.reserveAll(ctx, released, o.OrderNumber)
				return err
			}
			released = append(released, reservation{line.ProductID, line.Location, line.Quantity})
		}
	}

	if err := s.orderRepo.Delete(ctx, o.ID); err != nil {
		s.reserveAll(ctx, released, o.OrderNumber)
		return err
	}

	o.AddDomainEvent(order.NewOrderDeletedEvent(o))
	s.publishDomainEvents(ctx, o)

	return nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// GetByOrderNumber retrieves an order by its order number
func (s *OrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}

	var (
		page *shared.Paginated[*order.Order]
		err  error
	)
	switch {
	case filter.Kind != nil && filter.Status != nil:
		page, err = s.orderRepo.FindByStatus(ctx, *filter.Kind, *filter.Status, f)
	case filter.Kind != nil:
		page, err = s.orderRepo.FindByKind(ctx, *filter.Kind, f)
	case filter.CounterpartyID != nil:
		page, err = s.orderRepo.FindByCounterparty(ctx, *filter.CounterpartyID, f)
	default:
		page, err = s.orderRepo.FindAll(ctx, f)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, len(page.Items))
	for i, o := range page.Items {
		responses[i] = ToOrderResponse(o)
	}

	result := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// applyTransitionStockEffects runs the inventory side effects bound to a
// committed transition and returns the compensating action for them.
// A partial failure is compensated here before the error surfaces.
func (s *OrderService) applyTransitionStockEffects(ctx context.Context, o *order.Order, target order.OrderStatus) (func(context.Context), error) {
	noop := func(context.Context) {}

	switch {
	case o.Kind == order.OrderKindSales && target == order.OrderStatusCancelled:
		// Return the stock reserved at creation.
		var released []reservation
		for _, line := range o.Lines {
			if err := s.ledger.Release(ctx, line.ProductID, line.Location, line.Quantity, o.OrderNumber); err != nil {
				s.reserveAll(ctx, released, o.OrderNumber)
				return noop, err
			}
			released = append(released, reservation{line.ProductID, line.Location, line.Quantity})
		}
		return func(ctx context.Context) { s.reserveAll(ctx, released, o.OrderNumber) }, nil

	case (o.Kind == order.OrderKindPurchase && target == order.OrderStatusReceived) ||
		(o.Kind == order.OrderKindProduction && target == order.OrderStatusCompleted):
		// Stock enters the warehouse on receipt / production completion.
		var received []reservation
		for _, line := range o.Lines {
			if err := s.ledger.Receive(ctx, line.ProductID, line.Location, line.Quantity, o.OrderNumber); err != nil {
				s.reverseAll(ctx, received, o.OrderNumber)
				return noop, err
			}
			received = append(received, reservation{line.ProductID, line.Location, line.Quantity})
		}
		return func(ctx context.Context) { s.reverseAll(ctx, received, o.OrderNumber) }, nil
	}

	return noop, nil
}

// releaseAll undoes granted reservations. Failures are logged, not
// propagated: the caller is already surfacing the original error.
func (s *OrderService) releaseAll(ctx context.Context, granted []reservation, reference string) {
	for _, r := range granted {
		if err := s.ledger.Release(ctx, r.productID, r.location, r.quantity, reference); err != nil {
			s.logger.Error("failed to release reservation during compensation",
				zap.String("product_id", r.productID.String()),
				zap.String("location", r.location),
				zap.Int64("quantity", r.quantity),
				zap.String("reference", reference),
				zap.Error(err))
		}
	}
}

// reserveAll re-takes released reservations when the cancellation could
// not be persisted
func (s *OrderService) reserveAll(ctx context.Context, released []reservation, reference string) {
	for _, r := range released {
		if err := s.ledger.Reserve(ctx, r.productID, r.location, r.quantity, reference); err != nil {
			s.logger.Error("failed to re-reserve stock during compensation",
				zap.String("product_id", r.productID.String()),
				zap.String("location", r.location),
				zap.Int64("quantity", r.quantity),
				zap.String("reference", reference),
				zap.Error(err))
		}
	}
}

// reverseAll undoes receipts applied earlier in the same call
func (s *OrderService) reverseAll(ctx context.Context, received []reservation, reference string) {
	for _, r := range received {
		if err := s.ledger.ReverseReceipt(ctx, r.productID, r.location, r.quantity, reference); err != nil {
			s.logger.Error("failed to reverse receipt during compensation",
				zap.String("product_id", r.productID.String()),
				zap.String("location", r.location),
				zap.Int64("quantity", r.quantity),
				zap.String("reference", reference),
				zap.Error(err))
		}
	}
}

// publishDomainEvents publishes all domain events from the order
func (s *OrderService) publishDomainEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		o.ClearDomainEvents()
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	o.ClearDomainEvents()
}

// generateOrderNumber builds a unique, human-scannable order number
func generateOrderNumber(kind order.OrderKind) string {
	prefix := "SO"
	switch kind {
	case order.OrderKindPurchase:
		prefix = "PO"
	case order.OrderKindProduction:
		prefix = "PR"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), suffix)
}
