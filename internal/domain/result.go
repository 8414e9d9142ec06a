package domain

// Result is the envelope every backend operation returns.
type Result[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Error   string    `json:"error,omitempty"`
	Kind    ErrorKind `json:"-"`
	Status  int       `json:"-"`
}

// OK wraps data in a successful envelope.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail wraps a tagged error in a failed envelope.
func Fail[T any](err *Error) Result[T] {
	return Result[T]{Error: err.Message, Kind: err.Kind, Status: err.Status}
}

// Err returns nil for a successful envelope and the tagged error otherwise.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	return &Error{Kind: r.Kind, Status: r.Status, Message: r.Error}
}
