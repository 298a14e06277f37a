package ledger

import "errors"

// Domain-level errors. The handler layer maps these to HTTP
// status codes; none of them leave any state behind.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
)

// ValidationError reports malformed input: a blank symbol, a
// non-positive share count. Always recoverable, never a state change.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(msg string) error {
	return &ValidationError{Message: msg}
}

// PersistenceError wraps a ledger append or cash update that failed
// mid-transaction. The whole trade is rolled back when it occurs.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "persistence failure during " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
