package weberr

import (
	"errors"
)

// Error decorates a failure with the response the API answers it with and
// with fields that are logged but never sent. A zero Status marks an error
// that only carries log fields.
type Error struct {
	Err    error
	Status int
	Body   ErrorResponse
	Fields map[string]any
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

type Opt func(*Error)

// WithFields adds log fields to the decoration. Later keys win.
func WithFields(fields map[string]any) Opt {
	return func(e *Error) {
		if e.Fields == nil {
			e.Fields = make(map[string]any, len(fields))
		}
		for k, v := range fields {
			e.Fields[k] = v
		}
	}
}

// Annotate attaches log fields to err without choosing a response for it.
func Annotate(err error, fields map[string]any) error {
	return &Error{Err: err, Fields: fields}
}

// Response returns the body and status of the outermost decoration in err's
// chain that chose a response.
func Response(err error) (body *ErrorResponse, status int, ok bool) {
	for ; err != nil; err = errors.Unwrap(err) {
		if e, isErr := err.(*Error); isErr && e.Status != 0 {
			b := e.Body
			return &b, e.Status, true
		}
	}
	return nil, 0, false
}

// Fields merges the log fields of every decoration in err's chain. Fields
// set closer to the caller win over those set deeper down.
func Fields(err error) map[string]any {
	var chain []*Error
	for ; err != nil; err = errors.Unwrap(err) {
		if e, ok := err.(*Error); ok {
			chain = append(chain, e)
		}
	}

	fields := make(map[string]any)
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].Fields {
			fields[k] = v
		}
		if chain[i].Status != 0 {
			fields["reason"] = chain[i].Body.Reason
		}
	}
	return fields
}
