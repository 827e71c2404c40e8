package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexInt decodes a JSON value that some MacCMS deployments send as a
// number and others as a quoted numeric string (the envelope "limit"
// field in particular). Unparseable values decode to zero rather than
// failing the whole envelope.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(f))
}

// Envelope is the paginated wrapper every MacCMS response arrives in.
// Callers must tolerate Page > PageCount; upstream does not guarantee it.
type Envelope[T any] struct {
	Code      int     `json:"code"`
	Msg       string  `json:"msg"`
	Page      int     `json:"page"`
	PageCount int     `json:"pagecount"`
	Limit     FlexInt `json:"limit"`
	Total     int     `json:"total"`
	List      []T     `json:"list"`

	// The embedded category list arrives under "class" on class calls
	// and "type" on some legacy list dialects.
	Classes []CategoryRecord `json:"class,omitempty"`
	Types   []CategoryRecord `json:"type,omitempty"`
}

// VideoEnvelope is an envelope of video records.
type VideoEnvelope = Envelope[VideoRecord]

// CategoryEnvelope is an envelope of category records.
type CategoryEnvelope = Envelope[CategoryRecord]

// CodeSuccess is the upstream status code for a successful call.
const CodeSuccess = 1

// OK reports whether the upstream marked the response successful.
func (e *Envelope[T]) OK() bool {
	return e.Code == CodeSuccess
}

// Categories returns the embedded category list regardless of which
// JSON key it arrived under. "class" wins when both are present.
func (e *Envelope[T]) Categories() []CategoryRecord {
	if len(e.Classes) > 0 {
		return e.Classes
	}
	return e.Types
}

// Degraded builds a non-success envelope carrying only the upstream code
// and message. Logical upstream failures are represented as values, not
// errors; only transport failures surface as errors.
func Degraded[T any](code int, msg string) *Envelope[T] {
	return &Envelope[T]{Code: code, Msg: msg, Page: 1, PageCount: 1, List: []T{}}
}
