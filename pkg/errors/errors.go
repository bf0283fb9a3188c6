package errors

import "fmt"

// ErrNotFound indicates a resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized indicates missing or invalid credentials
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}

// ErrForbidden indicates the caller does not own the resource
type ErrForbidden struct {
	Message string
}

func (e *ErrForbidden) Error() string {
	return e.Message
}

// ErrValidation indicates a request failed local validation before any
// collaborator call was made
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// ErrInvalidStateTransition indicates an order status change that the
// status state machine does not allow
type ErrInvalidStateTransition struct {
	From string
	To   string
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ErrInsufficientStock indicates a requested quantity exceeds available stock
type ErrInsufficientStock struct {
	Product string
}

func (e *ErrInsufficientStock) Error() string {
	return fmt.Sprintf("insufficient stock for product: %s", e.Product)
}

// ErrConflict indicates a uniqueness violation, e.g. duplicate email
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}
