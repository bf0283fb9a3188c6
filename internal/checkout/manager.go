package checkout

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager hands out one checkout flow per user. A user abandoning the flow
// and starting over gets a fresh flow; a completed flow is dropped so the
// next checkout starts clean.
type Manager struct {
	cart      CartReader
	addresses AddressBook
	orders    OrderPlacer
	logger    *zap.Logger

	mu    sync.Mutex
	flows map[uuid.UUID]*Flow
}

// NewManager creates a flow manager over the three collaborators
func NewManager(cart CartReader, addresses AddressBook, orders OrderPlacer, logger *zap.Logger) *Manager {
	return &Manager{
		cart:      cart,
		addresses: addresses,
		orders:    orders,
		logger:    logger,
		flows:     make(map[uuid.UUID]*Flow),
	}
}

// Begin discards any previous flow for the user and returns a new one in the
// cart stage.
func (m *Manager) Begin(userID uuid.UUID) *Flow {
	m.mu.Lock()
	defer m.mu.Unlock()

	flow := NewFlow(userID, m.cart, m.addresses, m.orders, m.logger)
	m.flows[userID] = flow
	return flow
}

// Current returns the user's active flow, if any
func (m *Manager) Current(userID uuid.UUID) (*Flow, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	flow, ok := m.flows[userID]
	return flow, ok
}

// Finish drops the user's flow, whether completed or abandoned
func (m *Manager) Finish(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, userID)
}
