// Package scout wires the HAR reduction and matching pipeline behind the
// API surface.
package scout

import (
	"context"
	"strings"

	"github.com/dgnsrekt/har_scout/internal/har"
	"github.com/dgnsrekt/har_scout/internal/match"
)

// Service exposes the two pipeline operations: parse once, match many
// times with different descriptions.
type Service struct {
	orch *match.Orchestrator
}

// NewService builds a service around a classifier oracle. A nil classifier
// leaves matching unavailable while parsing keeps working; this is the
// no-credential degraded mode.
func NewService(classifier match.Classifier, opts ...match.Option) *Service {
	s := &Service{}
	if classifier != nil {
		s.orch = match.NewOrchestrator(classifier, opts...)
	}
	return s
}

// ParseHar reduces a decoded HAR log into the candidate list. The entries
// array must be present; an empty one is a valid capture of nothing.
func (s *Service) ParseHar(_ context.Context, log har.Log) ([]har.CandidateRequest, error) {
	if log.Entries == nil {
		return nil, &match.CodedError{Code: match.CodeValidation, Message: "har log has no entries array"}
	}
	return har.Reduce(log), nil
}

// MatchRequest runs the two-phase selection protocol over a caller-supplied
// candidate list.
func (s *Service) MatchRequest(ctx context.Context, description string, entries []har.CandidateRequest) (match.Result, error) {
	if strings.TrimSpace(description) == "" {
		return match.Result{}, &match.CodedError{Code: match.CodeValidation, Message: "description is required"}
	}
	if s.orch == nil {
		return match.Result{}, &match.CodedError{Code: match.CodeOracleUnavailable, Message: "matching is unavailable: no classifier credential configured"}
	}
	return s.orch.Match(ctx, description, entries)
}
