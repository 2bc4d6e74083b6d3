package mocks

import (
	"context"

	"todoevo/infras/otel"
)

// OtelRecorder hands out scopes that remember how they were used, so tests
// can assert that a code path opened, ended and error-traced its span.
type OtelRecorder struct {
	Scopes []*ScopeRecorder
}

func NewOtelRecorder() *OtelRecorder {
	return &OtelRecorder{}
}

// NewScope implements otel.Otel.
func (o *OtelRecorder) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	scope := &ScopeRecorder{SpanName: spanName}
	o.Scopes = append(o.Scopes, scope)

	return ctx, scope
}

type ScopeRecorder struct {
	SpanName          string
	Ended             bool
	TraceErrorCalls   int
	TraceIfErrorCalls int
	Events            []string
	Attributes        map[string]any
}

// End implements otel.Scope.
func (s *ScopeRecorder) End() {
	s.Ended = true
}

// TraceError implements otel.Scope.
func (s *ScopeRecorder) TraceError(_ error) {
	s.TraceErrorCalls++
}

// TraceIfError implements otel.Scope.
func (s *ScopeRecorder) TraceIfError(_ error) {
	s.TraceIfErrorCalls++
}

// AddEvent implements otel.Scope.
func (s *ScopeRecorder) AddEvent(name string) {
	s.Events = append(s.Events, name)
}

// SetAttribute implements otel.Scope.
func (s *ScopeRecorder) SetAttribute(key string, value any) {
	if s.Attributes == nil {
		s.Attributes = map[string]any{}
	}

	s.Attributes[key] = value
}

// SetAttributes implements otel.Scope.
func (s *ScopeRecorder) SetAttributes(attributes map[string]any) {
	for key, value := range attributes {
		s.SetAttribute(key, value)
	}
}
