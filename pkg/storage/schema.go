package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Method is an upper-cased HTTP method.
type Method string

// Supported HTTP methods.
const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
	MethodConnect Method = "CONNECT"
)

var knownMethods = map[Method]bool{
	MethodGet: true, MethodPost: true, MethodPut: true, MethodDelete: true, MethodPatch: true,
	MethodHead: true, MethodOptions: true, MethodTrace: true, MethodConnect: true,
}

// ParseMethod normalizes s to upper case and checks it against the supported methods.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !knownMethods[m] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
	}
	return m, nil
}

// String returns the method name.
func (m Method) String() string { return string(m) }

// BodyKind tags the variant held by a Body.
type BodyKind int

const (
	// BodyNone means no body is set.
	BodyNone BodyKind = iota
	// BodyText is an opaque text payload, stored as a JSON string.
	BodyText
	// BodyJSON is a structured JSON value kept as compact raw bytes.
	BodyJSON
)

// Body is a request payload. The zero value is an absent body.
type Body struct {
	kind BodyKind
	text string
	raw  json.RawMessage
}

// TextBody returns a body carrying s verbatim.
func TextBody(s string) Body {
	return Body{kind: BodyText, text: s}
}

// JSONBody returns a body from raw JSON. The value is compacted so that equal documents
// compare byte-for-byte after a save/load cycle. A top-level string becomes a text body
// holding the decoded string and a top-level null becomes an absent body, since neither
// can be told apart from those variants once saved.
func JSONBody(raw []byte) (Body, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return Body{}, fmt.Errorf("invalid JSON body: %w", err)
	}
	compact := buf.Bytes()

	switch {
	case bytes.Equal(compact, []byte("null")):
		return Body{}, nil
	case compact[0] == '"':
		var s string
		if err := json.Unmarshal(compact, &s); err != nil {
			return Body{}, fmt.Errorf("invalid JSON body: %w", err)
		}
		return TextBody(s), nil
	}
	return Body{kind: BodyJSON, raw: json.RawMessage(compact)}, nil
}

// ParseValueBody interprets s as JSON when it parses as JSON and as text otherwise.
func ParseValueBody(s string) Body {
	if b, err := JSONBody([]byte(s)); err == nil {
		return b
	}
	return TextBody(s)
}

// Kind reports which variant the body holds.
func (b Body) Kind() BodyKind { return b.kind }

// IsZero reports whether the body is absent.
func (b Body) IsZero() bool { return b.kind == BodyNone }

// Text returns the text payload for BodyText bodies.
func (b Body) Text() string { return b.text }

// Raw returns the compact JSON for BodyJSON bodies.
func (b Body) Raw() json.RawMessage { return b.raw }

// Bytes returns the payload as it goes on the wire.
func (b Body) Bytes() []byte {
	switch b.kind {
	case BodyText:
		return []byte(b.text)
	case BodyJSON:
		return []byte(b.raw)
	default:
		return nil
	}
}

// Equal reports whether two bodies hold the same variant and payload.
func (b Body) Equal(o Body) bool {
	return b.kind == o.kind && b.text == o.text && bytes.Equal(b.raw, o.raw)
}

// MarshalJSON encodes text bodies as JSON strings and structured bodies as-is.
func (b Body) MarshalJSON() ([]byte, error) {
	switch b.kind {
	case BodyText:
		return json.Marshal(b.text)
	case BodyJSON:
		return b.raw, nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON string into a text body and any other value into a
// structured body.
func (b *Body) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*b = Body{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*b = TextBody(s)
		return nil
	}
	parsed, err := JSONBody(trimmed)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// RequestDescriptor is the unit of persistence and execution.
type RequestDescriptor struct {
	Method  Method
	URL     string
	Headers map[string]string
	Body    Body
	// Timeout of zero means the transport default applies.
	Timeout time.Duration
}

// Clone returns a deep copy of d.
func (d *RequestDescriptor) Clone() *RequestDescriptor {
	c := *d
	if d.Headers != nil {
		c.Headers = make(map[string]string, len(d.Headers))
		for k, v := range d.Headers {
			c.Headers[k] = v
		}
	}
	if d.Body.raw != nil {
		c.Body.raw = append(json.RawMessage(nil), d.Body.raw...)
	}
	return &c
}

// SetHeader sets key to value, replacing any existing header whose name matches key
// case-insensitively. The new spelling of key is kept.
func (d *RequestDescriptor) SetHeader(key, value string) {
	if d.Headers == nil {
		d.Headers = make(map[string]string)
	}
	for k := range d.Headers {
		if strings.EqualFold(k, key) {
			delete(d.Headers, k)
		}
	}
	d.Headers[key] = value
}

// record is the on-disk shape of a saved configuration.
type record struct {
	Method  Method            `json:"method,omitempty"`
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    *Body             `json:"body,omitempty"`
	Timeout *float64          `json:"timeout,omitempty"` // seconds
}

func toRecord(d *RequestDescriptor) record {
	r := record{
		Method:  d.Method,
		URL:     d.URL,
		Headers: d.Headers,
	}
	if !d.Body.IsZero() {
		body := d.Body
		r.Body = &body
	}
	if d.Timeout > 0 {
		secs := d.Timeout.Seconds()
		r.Timeout = &secs
	}
	return r
}

func (r record) descriptor() *RequestDescriptor {
	d := &RequestDescriptor{
		Method:  r.Method,
		URL:     r.URL,
		Headers: r.Headers,
	}
	if r.Body != nil {
		d.Body = *r.Body
	}
	if r.Timeout != nil {
		// Range is checked by TimeoutFromSeconds before a record is turned into a descriptor.
		d.Timeout = time.Duration(math.Round(*r.Timeout * float64(time.Second)))
	}
	return d
}

// TimeoutFromSeconds converts a timeout in seconds to a duration. Negative values and
// values that do not fit in a time.Duration are rejected.
func TimeoutFromSeconds(secs float64) (time.Duration, error) {
	switch {
	case math.IsNaN(secs) || secs < 0:
		return 0, fmt.Errorf("timeout must not be negative, got %g", secs)
	case secs*float64(time.Second) >= float64(math.MaxInt64):
		return 0, fmt.Errorf("timeout %gs exceeds the maximum of %s", secs, time.Duration(math.MaxInt64))
	}
	return time.Duration(math.Round(secs * float64(time.Second))), nil
}
