package domain

import (
	"errors"
	"fmt"
	"math"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFound"
	default:
		return "InternalServerError"
	}
}

// Error is a failure the caller can act on. Kind decides how the boundary reports it.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewValidationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewInternal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// MaxQuantity is the largest quantity a cart line may hold. It matches the
// range of the INTEGER quantity column in every store.
const MaxQuantity = math.MaxInt32

var (
	ErrQuantityTooLarge    = NewValidationf("Quantity must be %d or less", MaxQuantity)
	ErrQuantityPositive    = NewValidation("Quantity must be a positive integer")
	ErrQuantityNonNegative = NewValidation("Quantity must be a non-negative integer")
	ErrProductNotFound     = NewNotFound("Product not found")
	ErrCartLineNotFound    = NewNotFound("Cart item not found")
	ErrNameRequired        = NewValidation("Customer name is required")
	ErrEmailRequired       = NewValidation("Customer email is required")
	ErrInvalidEmail        = NewValidation("Invalid email format")
	ErrCartEmpty           = NewValidation("Cart is empty")
)

// KindOf classifies err. Anything that is not a *Error is internal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
