// Package checkout implements the order assembly flow: a linear, resumable
// progression from a cart snapshot through shipping and payment selection to
// a single order-creation call. The flow owns an order draft that is filled
// incrementally and consumed exactly once; a failed order-creation call
// leaves the draft intact so the user can retry.
package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/domain"
	"github.com/medcart/pharmacy-api/internal/pricing"
)

// State identifies the stage the flow has reached
type State string

const (
	StateCart             State = "CART"
	StateShippingSelected State = "SHIPPING_SELECTED"
	StatePaymentSelected  State = "PAYMENT_SELECTED"
	StateOrderPlaced      State = "ORDER_PLACED"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrFlowNotStarted      = errors.New("checkout flow has not been started")
	ErrAlreadyPlaced       = errors.New("order has already been placed")
	ErrShippingNotSelected = errors.New("shipping address has not been selected")
	ErrPaymentNotSelected  = errors.New("payment method has not been selected")
	ErrPlacementInFlight   = errors.New("order placement already in progress")
	ErrInvalidPayment      = errors.New("unknown payment method")
	ErrIncompleteAddress   = errors.New("street, city, state, zip code and country are all required")
	ErrAddressNotFound     = errors.New("saved address not found")
)

// CartReader supplies the cart snapshot the flow starts from
type CartReader interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
}

// AddressBook lists and persists saved shipping addresses
type AddressBook interface {
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]domain.Address, error)
	SaveAddress(ctx context.Context, userID uuid.UUID, addr domain.Address) (*domain.Address, error)
}

// OrderPlacer issues the single order-creation call that finalizes the flow
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, draft Draft) (*domain.Order, error)
}

// Draft is the in-progress order data accumulated across the shipping and
// payment steps. AddressID is set only when an existing saved address was
// chosen or a new one was saved during the flow.
type Draft struct {
	ShippingAddress string
	AddressID       *uuid.UUID
	PaymentMethod   domain.PaymentMethod
}

// NewAddress is a shipping address entered during checkout. Save requests
// that it be persisted to the user's address book before the flow proceeds.
type NewAddress struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
	Save    bool
}

func (a NewAddress) complete() bool {
	for _, field := range []string{a.Street, a.City, a.State, a.ZipCode, a.Country} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

// Flow is the order assembly state machine for one user's checkout session.
// Transitions only move forward on success; any collaborator failure leaves
// the state and draft untouched for a user-initiated retry.
type Flow struct {
	userID    uuid.UUID
	cart      CartReader
	addresses AddressBook
	orders    OrderPlacer
	logger    *zap.Logger

	mu      sync.Mutex
	state   State
	draft   Draft
	lines   []domain.CartItem
	placing bool
	placed  *domain.Order
}

// NewFlow creates a flow in the cart stage. Start must be called before any
// transition.
func NewFlow(userID uuid.UUID, cart CartReader, addresses AddressBook, orders OrderPlacer, logger *zap.Logger) *Flow {
	return &Flow{
		userID:    userID,
		cart:      cart,
		addresses: addresses,
		orders:    orders,
		logger:    logger,
		state:     StateCart,
	}
}

// Start reads the current cart snapshot. An empty cart short-circuits the
// flow: no transition out of the cart stage is possible until items exist.
func (f *Flow) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateOrderPlaced {
		return ErrAlreadyPlaced
	}

	cart, err := f.cart.GetCart(ctx, f.userID)
	if err != nil {
		return err
	}
	if len(cart.Items) == 0 {
		return ErrEmptyCart
	}

	f.lines = cart.Items
	return nil
}

// SelectSavedAddress resolves one of the user's saved addresses and moves
// the flow to the shipping-selected stage.
func (f *Flow) SelectSavedAddress(ctx context.Context, addressID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireStarted(); err != nil {
		return err
	}
	if f.state == StateOrderPlaced {
		return ErrAlreadyPlaced
	}

	saved, err := f.addresses.ListAddresses(ctx, f.userID)
	if err != nil {
		return err
	}

	for i := range saved {
		if saved[i].ID == addressID {
			id := saved[i].ID
			f.draft = Draft{ShippingAddress: saved[i].Postal(), AddressID: &id}
			f.state = StateShippingSelected
			return nil
		}
	}
	return ErrAddressNotFound
}

// EnterNewAddress validates a freshly entered address and moves the flow to
// the shipping-selected stage. If the user asked to save it, the save must
// succeed before the transition happens; a failed save aborts the transition
// and the flow stays in the cart stage.
func (f *Flow) EnterNewAddress(ctx context.Context, addr NewAddress) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireStarted(); err != nil {
		return err
	}
	if f.state == StateOrderPlaced {
		return ErrAlreadyPlaced
	}
	if !addr.complete() {
		return ErrIncompleteAddress
	}

	draft := Draft{}
	address := domain.Address{
		Street:  strings.TrimSpace(addr.Street),
		City:    strings.TrimSpace(addr.City),
		State:   strings.TrimSpace(addr.State),
		ZipCode: strings.TrimSpace(addr.ZipCode),
		Country: strings.TrimSpace(addr.Country),
	}

	if addr.Save {
		saved, err := f.addresses.SaveAddress(ctx, f.userID, address)
		if err != nil {
			f.logger.Warn("address save failed, staying on shipping entry",
				zap.String("user_id", f.userID.String()),
				zap.Error(err),
			)
			return err
		}
		id := saved.ID
		draft.AddressID = &id
		draft.ShippingAddress = saved.Postal()
	} else {
		draft.ShippingAddress = address.Postal()
	}

	f.draft = draft
	f.state = StateShippingSelected
	return nil
}

// SelectPayment records the payment method. Purely a local state update, no
// collaborator call.
func (f *Flow) SelectPayment(method domain.PaymentMethod) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case StateCart:
		return ErrShippingNotSelected
	case StateOrderPlaced:
		return ErrAlreadyPlaced
	}
	if !method.IsValid() {
		return ErrInvalidPayment
	}

	f.draft.PaymentMethod = method
	f.state = StatePaymentSelected
	return nil
}

// PlaceOrder issues the single order-creation call. On success the flow
// reaches the terminal order-placed stage; on failure the state and draft
// are unchanged and the caller may retry. A second call while one is
// outstanding is refused.
func (f *Flow) PlaceOrder(ctx context.Context) (*domain.Order, error) {
	f.mu.Lock()
	switch f.state {
	case StateCart:
		f.mu.Unlock()
		return nil, ErrShippingNotSelected
	case StateShippingSelected:
		f.mu.Unlock()
		return nil, ErrPaymentNotSelected
	case StateOrderPlaced:
		f.mu.Unlock()
		return nil, ErrAlreadyPlaced
	}
	if f.placing {
		f.mu.Unlock()
		return nil, ErrPlacementInFlight
	}
	f.placing = true
	draft := f.draft
	f.mu.Unlock()

	order, err := f.orders.PlaceOrder(ctx, f.userID, draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.placing = false

	if err != nil {
		f.logger.Warn("order placement failed, draft retained for retry",
			zap.String("user_id", f.userID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	f.state = StateOrderPlaced
	f.placed = order
	f.lines = nil
	return order, nil
}

// Back navigates one stage backwards, discarding forward-stage data. It has
// no effect in the cart stage and is not allowed once the order is placed.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case StatePaymentSelected:
		f.draft.PaymentMethod = ""
		f.state = StateShippingSelected
	case StateShippingSelected:
		f.draft = Draft{}
		f.state = StateCart
	case StateOrderPlaced:
		return ErrAlreadyPlaced
	}
	return nil
}

// State returns the current stage
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Draft returns a copy of the accumulated order draft
func (f *Flow) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// PlacedOrder returns the created order once the flow has completed
func (f *Flow) PlacedOrder() *domain.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.placed
}

// Total computes the charged total over the cart snapshot using the pricing
// engine, line by line.
func (f *Flow) Total() decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()

	lines := make([]pricing.Line, 0, len(f.lines))
	for i := range f.lines {
		if f.lines[i].Product == nil {
			continue
		}
		lines = append(lines, pricing.Line{
			Item:     f.lines[i].Product.PricingItem(),
			Quantity: f.lines[i].Quantity,
		})
	}
	return pricing.CartTotal(lines)
}

func (f *Flow) requireStarted() error {
	if f.state == StateCart && f.lines == nil {
		return ErrFlowNotStarted
	}
	return nil
}
