package weberr

import "net/http"

// Problem is an RFC 7807 problem-details body carrying field-level
// validation messages. It is the response shape for every request the
// server understood but refused, whether the input failed to bind (400)
// or failed semantic validation (422); the two differ only in status.
type Problem struct {
	Type     string              `json:"type"`
	Title    string              `json:"title"`
	Status   int                 `json:"status"`
	Detail   string              `json:"detail"`
	Instance string              `json:"instance"`
	TraceID  string              `json:"traceId"`
	Errors   map[string][]string `json:"errors,omitempty"`
}

func (p *Problem) MediaType() string { return "application/problem+json" }

const (
	validationProblemType  = "https://dummycourselibrary.com/modelvalidationproblem"
	validationProblemTitle = "One or more validation errors occured."
	validationProblemMsg   = "See the errors property for details."
)

// Unprocessable translates semantic validation failures into the 422
// problem response. instance is the request path, traceID the request
// correlation token.
func Unprocessable(err error, errors map[string][]string, instance string, traceID string, opts ...Opt) error {
	return problem(err, http.StatusUnprocessableEntity, errors, instance, traceID, opts...)
}

// Malformed renders the same problem shape for input the server could
// not bind at all, with status 400.
func Malformed(err error, errors map[string][]string, instance string, traceID string, opts ...Opt) error {
	return problem(err, http.StatusBadRequest, errors, instance, traceID, opts...)
}

func problem(err error, status int, errors map[string][]string, instance string, traceID string, opts ...Opt) error {
	p := &Problem{
		Type:     validationProblemType,
		Title:    validationProblemTitle,
		Status:   status,
		Detail:   validationProblemMsg,
		Instance: instance,
		TraceID:  traceID,
		Errors:   errors,
	}

	e := &RequestError{Err: err}
	opts = append(opts, WithResponse(p, status))

	return Wrap(e, opts...)
}
