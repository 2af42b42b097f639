package llm

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundwise/pkg/core/prompt"
)

// fakeProvider returns a fixed reply or error and counts calls.
type fakeProvider struct {
	name  string
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(_ context.Context, _ string, _ string, _ int) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

var verdictSchema = jsonschema.MustCompileString("verdict.json", `{
  "type": "object",
  "required": ["verdict"],
  "properties": {"verdict": {"enum": ["ok", "bad"]}}
}`)

func verdictRequest() prompt.Request {
	return prompt.Request{Stage: "verdict", User: "classify", Schema: verdictSchema}
}

type verdict struct {
	Verdict string `json:"verdict"`
}

func TestCompletePrimarySuccess(t *testing.T) {
	primary := &fakeProvider{name: "primary", reply: `{"verdict": "ok"}`}
	fallback := &fakeProvider{name: "fallback", reply: `{"verdict": "bad"}`}
	svc := NewServiceWith(primary, fallback, time.Second, zerolog.Nop())

	var v verdict
	provider, err := svc.Complete(context.Background(), verdictRequest(), &v)
	require.NoError(t, err)

	assert.Equal(t, "primary", provider)
	assert.Equal(t, "ok", v.Verdict)
	assert.Equal(t, 0, fallback.calls, "fallback must not be touched on primary success")
}

func TestCompleteFallsBackOnTransportError(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: fmt.Errorf("connection refused")}
	fallback := &fakeProvider{name: "fallback", reply: `{"verdict": "ok"}`}
	svc := NewServiceWith(primary, fallback, time.Second, zerolog.Nop())

	var v verdict
	provider, err := svc.Complete(context.Background(), verdictRequest(), &v)
	require.NoError(t, err, "caller must see no trace of the primary failure")

	assert.Equal(t, "fallback", provider)
	assert.Equal(t, "ok", v.Verdict)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestCompleteFallsBackOnMalformedOutput(t *testing.T) {
	primary := &fakeProvider{name: "primary", reply: "I'd be happy to help with that!"}
	fallback := &fakeProvider{name: "fallback", reply: `{"verdict": "ok"}`}
	svc := NewServiceWith(primary, fallback, time.Second, zerolog.Nop())

	var v verdict
	provider, err := svc.Complete(context.Background(), verdictRequest(), &v)
	require.NoError(t, err)
	assert.Equal(t, "fallback", provider)
}

func TestCompleteFallsBackOnSchemaViolation(t *testing.T) {
	// Valid JSON, but the enum is violated: treated like a transport failure.
	primary := &fakeProvider{name: "primary", reply: `{"verdict": "excellent"}`}
	fallback := &fakeProvider{name: "fallback", reply: `{"verdict": "ok"}`}
	svc := NewServiceWith(primary, fallback, time.Second, zerolog.Nop())

	var v verdict
	provider, err := svc.Complete(context.Background(), verdictRequest(), &v)
	require.NoError(t, err)
	assert.Equal(t, "fallback", provider)
	assert.Equal(t, "ok", v.Verdict)
}

func TestCompleteFallbackDiscardsRejectedPrimaryFields(t *testing.T) {
	// Parseable JSON whose enum is violated: the whole reply is
	// rejected, including optional fields the fallback does not set.
	primary := &fakeProvider{name: "primary", reply: `{"verdict": "excellent", "note": "hallucinated aside"}`}
	fallback := &fakeProvider{name: "fallback", reply: `{"verdict": "ok"}`}
	svc := NewServiceWith(primary, fallback, time.Second, zerolog.Nop())

	var v struct {
		Verdict string `json:"verdict"`
		Note    string `json:"note"`
	}
	provider, err := svc.Complete(context.Background(), verdictRequest(), &v)
	require.NoError(t, err)

	assert.Equal(t, "fallback", provider)
	assert.Equal(t, "ok", v.Verdict)
	assert.Empty(t, v.Note, "field from the rejected primary reply must not survive into the fallback result")
}

func TestCompleteBothProvidersFail(t *testing.T) {
	primary := &fakeProvider{name: "gemini(test)", err: fmt.Errorf("quota exceeded")}
	fallback := &fakeProvider{name: "ollama(test)", err: fmt.Errorf("connection refused")}
	svc := NewServiceWith(primary, fallback, time.Second, zerolog.Nop())

	var v verdict
	_, err := svc.Complete(context.Background(), verdictRequest(), &v)
	require.Error(t, err)

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	// The combined failure names both providers and both causes.
	assert.Contains(t, err.Error(), "gemini(test)")
	assert.Contains(t, err.Error(), "ollama(test)")
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCompleteNoFallbackConfigured(t *testing.T) {
	primary := &fakeProvider{name: "gemini(test)", err: fmt.Errorf("quota exceeded")}
	svc := NewServiceWith(primary, nil, time.Second, zerolog.Nop())

	var v verdict
	_, err := svc.Complete(context.Background(), verdictRequest(), &v)

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Contains(t, err.Error(), "no fallback configured")
}

func TestCompleteRepairsFencedOutput(t *testing.T) {
	primary := &fakeProvider{name: "primary", reply: "```json\n{\"verdict\": \"ok\"}\n```"}
	svc := NewServiceWith(primary, nil, time.Second, zerolog.Nop())

	var v verdict
	provider, err := svc.Complete(context.Background(), verdictRequest(), &v)
	require.NoError(t, err)
	assert.Equal(t, "primary", provider)
	assert.Equal(t, "ok", v.Verdict)
}
