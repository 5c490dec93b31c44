package storage

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{in: "get", want: MethodGet},
		{in: "Post", want: MethodPost},
		{in: " patch ", want: MethodPatch},
		{in: "OPTIONS", want: MethodOptions},
		{in: "FETCH", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMethod(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedMethod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValueBody(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantKind BodyKind
		wantWire string
	}{
		{name: "object", in: `{ "a": 1 }`, wantKind: BodyJSON, wantWire: `{"a":1}`},
		{name: "array", in: `[1, 2]`, wantKind: BodyJSON, wantWire: `[1,2]`},
		{name: "number", in: `42`, wantKind: BodyJSON, wantWire: `42`},
		{name: "plain text", in: `hello world`, wantKind: BodyText, wantWire: `hello world`},
		{name: "broken json", in: `{"a":`, wantKind: BodyText, wantWire: `{"a":`},
		{name: "json string", in: `"hello"`, wantKind: BodyText, wantWire: `hello`},
		{name: "json null", in: ` null `, wantKind: BodyNone, wantWire: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ParseValueBody(tt.in)
			assert.Equal(t, tt.wantKind, b.Kind())
			assert.Equal(t, tt.wantWire, string(b.Bytes()))
		})
	}
}

func TestBody_JSONEncoding(t *testing.T) {
	var text Body
	require.NoError(t, json.Unmarshal([]byte(`"plain"`), &text))
	assert.Equal(t, BodyText, text.Kind())
	assert.Equal(t, "plain", text.Text())

	out, err := json.Marshal(text)
	require.NoError(t, err)
	assert.Equal(t, `"plain"`, string(out))

	var structured Body
	require.NoError(t, json.Unmarshal([]byte(`{"k": [true, null]}`), &structured))
	assert.Equal(t, BodyJSON, structured.Kind())
	assert.Equal(t, `{"k":[true,null]}`, string(structured.Raw()))

	var absent Body
	assert.True(t, absent.IsZero())
	assert.Nil(t, absent.Bytes())
}

func TestRequestDescriptor_SetHeader(t *testing.T) {
	d := &RequestDescriptor{Headers: map[string]string{"content-type": "text/plain", "X-Keep": "1"}}
	d.SetHeader("Content-Type", "application/json")

	assert.Equal(t, map[string]string{"Content-Type": "application/json", "X-Keep": "1"}, d.Headers)
}

func TestRequestDescriptor_CloneIsDeep(t *testing.T) {
	body, err := JSONBody([]byte(`{"a":1}`))
	require.NoError(t, err)
	d := &RequestDescriptor{Method: MethodGet, Headers: map[string]string{"A": "1"}, Body: body}

	c := d.Clone()
	c.Headers["A"] = "2"
	c.Body.raw[2] = 'b'

	assert.Equal(t, "1", d.Headers["A"])
	assert.Equal(t, `{"a":1}`, string(d.Body.Raw()))
}

func TestTimeoutFromSeconds(t *testing.T) {
	tests := []struct {
		name    string
		secs    float64
		want    time.Duration
		wantErr bool
	}{
		{name: "zero", secs: 0, want: 0},
		{name: "fractional", secs: 1.5, want: 1500 * time.Millisecond},
		{name: "one year", secs: 365 * 24 * 3600, want: 365 * 24 * time.Hour},
		{name: "negative", secs: -1, wantErr: true},
		{name: "overflows duration", secs: 1e12, wantErr: true},
		{name: "at the limit", secs: float64(math.MaxInt64) / float64(time.Second), wantErr: true},
		{name: "not a number", secs: math.NaN(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TimeoutFromSeconds(tt.secs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
