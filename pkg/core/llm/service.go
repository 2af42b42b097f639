package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"

	"fundwise/pkg/core/prompt"
	"fundwise/pkg/core/utils"
)

// UnavailableError means both the primary and fallback providers failed
// for one completion. Both causes are preserved for diagnosis.
type UnavailableError struct {
	Primary     string
	Fallback    string
	PrimaryErr  error
	FallbackErr error
}

func (e *UnavailableError) Error() string {
	if e.Fallback == "" {
		return fmt.Sprintf("AI service unavailable: %s failed: %v (no fallback configured)", e.Primary, e.PrimaryErr)
	}
	return fmt.Sprintf("AI service unavailable: %s failed: %v; %s failed: %v",
		e.Primary, e.PrimaryErr, e.Fallback, e.FallbackErr)
}

// Completer is what the pipeline depends on. Satisfied by *Service and
// by test doubles.
type Completer interface {
	Complete(ctx context.Context, req prompt.Request, target interface{}) (provider string, err error)
}

// Service sends a prompt to the primary provider and, on any failure
// class (transport, non-success status, output failing the stage
// schema), retries the same prompt against the fallback exactly once.
// Identical prompts issue identical new requests: there is no cache.
type Service struct {
	primary  Provider
	fallback Provider // may be nil
	timeout  time.Duration
	log      zerolog.Logger
}

var _ Completer = (*Service)(nil)

func NewService(cfg Config, log zerolog.Logger) *Service {
	return &Service{
		primary:  NewGeminiProvider(cfg),
		fallback: NewOllamaProvider(cfg),
		timeout:  cfg.Timeout(),
		log:      log.With().Str("component", "llm").Logger(),
	}
}

// NewServiceWith wires explicit providers; fallback may be nil.
func NewServiceWith(primary, fallback Provider, timeout time.Duration, log zerolog.Logger) *Service {
	return &Service{primary: primary, fallback: fallback, timeout: timeout, log: log}
}

// ActiveProvider names the configured primary.
func (s *Service) ActiveProvider() string { return s.primary.Name() }

// FallbackProvider names the configured fallback, if any.
func (s *Service) FallbackProvider() string {
	if s.fallback == nil {
		return ""
	}
	return s.fallback.Name()
}

// Complete runs one completion with fallback. On success target holds
// the decoded value and the serving provider's name is returned.
func (s *Service) Complete(ctx context.Context, req prompt.Request, target interface{}) (string, error) {
	primaryErr := s.attempt(ctx, s.primary, req, target)
	if primaryErr == nil {
		return s.primary.Name(), nil
	}

	if s.fallback == nil {
		return "", &UnavailableError{Primary: s.primary.Name(), PrimaryErr: primaryErr}
	}

	s.log.Warn().
		Str("stage", req.Stage).
		Str("primary", s.primary.Name()).
		Err(primaryErr).
		Msgf("primary provider failed, falling back to %s", s.fallback.Name())

	fallbackErr := s.attempt(ctx, s.fallback, req, target)
	if fallbackErr == nil {
		return s.fallback.Name(), nil
	}

	return "", &UnavailableError{
		Primary:     s.primary.Name(),
		Fallback:    s.fallback.Name(),
		PrimaryErr:  primaryErr,
		FallbackErr: fallbackErr,
	}
}

// attempt issues one provider call under the per-call timeout and
// enforces the output contract: parseable JSON that satisfies the
// stage's schema. The reply is decoded into a scratch value first;
// target is written only after the contract passed, from a zeroed
// state, so nothing from a rejected earlier attempt survives into the
// returned result.
func (s *Service) attempt(ctx context.Context, p Provider, req prompt.Request, target interface{}) error {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := p.Generate(callCtx, req.User, req.System, req.MaxTokens)
	if err != nil {
		return err
	}

	var scratch interface{}
	canonical, err := utils.SmartParse(raw, &scratch)
	if err != nil {
		return fmt.Errorf("malformed output from %s: %w", p.Name(), err)
	}

	if req.Schema != nil {
		if err := req.Schema.Validate(scratch); err != nil {
			return fmt.Errorf("output from %s violates the %s contract: %w", p.Name(), req.Stage, err)
		}
	}

	zeroTarget(target)
	if err := json.Unmarshal([]byte(canonical), target); err != nil {
		return fmt.Errorf("malformed output from %s: %w", p.Name(), err)
	}

	s.log.Debug().
		Str("stage", req.Stage).
		Str("provider", p.Name()).
		Dur("elapsed", time.Since(start)).
		Msg("completion ok")
	return nil
}

// zeroTarget resets the pointed-to value so a decode never layers onto
// leftovers from a previous attempt.
func zeroTarget(target interface{}) {
	v := reflect.ValueOf(target)
	if v.Kind() == reflect.Ptr && !v.IsNil() {
		v.Elem().Set(reflect.Zero(v.Elem().Type()))
	}
}
