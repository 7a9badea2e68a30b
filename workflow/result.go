package workflow

import (
	"encoding/json"

	deverrors "github.com/randalmurphal/issueflow/errors"
)

// Result is the envelope every action returns. On the wire it is exactly
// {"success": true, "data": ...} or {"success": false, "error": "..."}.
// The error kind and retryability travel with it in process only.
type Result struct {
	Success bool
	Data    any
	Error   string

	kind      deverrors.Kind
	retryable bool
}

// Ok wraps data in a success envelope.
func Ok(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail converts err into a failure envelope. Errors that do not carry a
// kind are reported as internal errors.
func Fail(err error) Result {
	kind := deverrors.KindOf(err)
	if kind == "" {
		kind = deverrors.KindInternal
	}
	return Result{
		Error:     err.Error(),
		kind:      kind,
		retryable: kind.Retryable(),
	}
}

// Kind returns the failure kind, or "" on success.
func (r Result) Kind() deverrors.Kind {
	return r.kind
}

// Retryable reports whether repeating the call may succeed.
func (r Result) Retryable() bool {
	return r.retryable
}

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type failureEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// MarshalJSON emits the two-key wire shape.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Success {
		data := r.Data
		if data == nil {
			data = struct{}{}
		}
		return json.Marshal(successEnvelope{Success: true, Data: data})
	}
	return json.Marshal(failureEnvelope{Success: false, Error: r.Error})
}
