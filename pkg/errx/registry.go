package errx

import (
	"fmt"
	"strings"
	"sync"
)

// ErrorCode identifies a registered error, prefixed with its registry name
type ErrorCode string

type definition struct {
	errType    Type
	httpStatus int
	message    string
}

// Registry holds the error codes of one domain
type Registry struct {
	prefix string
	mu     sync.RWMutex
	codes  map[ErrorCode]definition
}

func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: strings.ToUpper(prefix),
		codes:  make(map[ErrorCode]definition),
	}
}

// Register adds a code to the registry and returns its full name
func (r *Registry) Register(code string, t Type, httpStatus int, message string) ErrorCode {
	full := ErrorCode(r.prefix + "_" + code)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.codes[full]; exists {
		panic(fmt.Sprintf("errx: duplicate error code %s", full))
	}
	r.codes[full] = definition{errType: t, httpStatus: httpStatus, message: message}
	return full
}

// New creates an error for a registered code
func (r *Registry) New(code ErrorCode) *Error {
	r.mu.RLock()
	def, ok := r.codes[code]
	r.mu.RUnlock()

	if !ok {
		return &Error{
			Code:       string(code),
			Type:       TypeInternal,
			HTTPStatus: StatusFor(TypeInternal),
			Message:    "unregistered error code",
		}
	}

	return &Error{
		Code:       string(code),
		Type:       def.errType,
		HTTPStatus: def.httpStatus,
		Message:    def.message,
	}
}

// NewWithCause creates an error for a registered code wrapping cause
func (r *Registry) NewWithCause(code ErrorCode, cause error) *Error {
	return r.New(code).WithCause(cause)
}

// Codes lists every registered code, used for documentation endpoints and tests
func (r *Registry) Codes() []ErrorCode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]ErrorCode, 0, len(r.codes))
	for c := range r.codes {
		codes = append(codes, c)
	}
	return codes
}
