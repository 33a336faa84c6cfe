package beehiiv

import (
	"github.com/tidwall/gjson"
)

// Result is the outcome of a single bridge call.
//
// Exactly one of the two shapes is populated: on success Data holds the
// decoded response body unchanged and Err is empty; on failure Err holds a
// human-readable message and Data is nil. Callers branch on OK, never on a
// Go error.
type Result struct {
	Data map[string]any
	Err  string

	raw []byte
}

func successResult(raw []byte, data map[string]any) *Result {
	return &Result{Data: data, raw: raw}
}

func errorResult(message string) *Result {
	if message == "" {
		message = "Unknown error"
	}
	return &Result{Err: message}
}

// OK reports whether the call succeeded.
func (r *Result) OK() bool {
	return r != nil && r.Err == ""
}

// Has reports whether the decoded body carries the given top-level key.
func (r *Result) Has(key string) bool {
	if !r.OK() {
		return false
	}
	_, ok := r.Data[key]
	return ok
}

// Get looks up a gjson path (e.g. "data.content.free.web") in the response
// body. Missing paths, and any path on a failed result, yield a zero
// gjson.Result whose Exists() is false.
func (r *Result) Get(path string) gjson.Result {
	if !r.OK() || len(r.raw) == 0 {
		return gjson.Result{}
	}
	return gjson.GetBytes(r.raw, path)
}

// Map renders the result as the wire-level union: the decoded body on
// success, or the single-key marker {"error": message} on failure.
func (r *Result) Map() map[string]any {
	if r == nil {
		return map[string]any{"error": "Unknown error"}
	}
	if !r.OK() {
		return map[string]any{"error": r.Err}
	}
	return r.Data
}
