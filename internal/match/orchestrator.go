package match

import (
	"context"
	"log/slog"

	"github.com/dgnsrekt/har_scout/internal/curl"
	"github.com/dgnsrekt/har_scout/internal/har"
	"golang.org/x/sync/errgroup"
)

// Classifier is the natural-language matching oracle. Implementations are
// fallible remote calls; the orchestrator never retries them.
type Classifier interface {
	Classify(ctx context.Context, system, user string) (string, error)
}

// ArtifactSink records pipeline intermediates for debugging. A nil sink
// disables recording.
type ArtifactSink interface {
	Record(kind string, v any)
}

// Orchestrator drives the two-phase selection protocol: per-batch
// classification, then cross-batch arbitration when more than one batch
// produced a winner.
type Orchestrator struct {
	classifier    Classifier
	payloadBudget int
	postDataLimit int
	artifacts     ArtifactSink
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPayloadBudget overrides the per-call serialized payload budget.
func WithPayloadBudget(chars int) Option {
	return func(o *Orchestrator) {
		if chars > 0 {
			o.payloadBudget = chars
		}
	}
}

// WithPostDataLimit overrides the post-data truncation ceiling.
func WithPostDataLimit(chars int) Option {
	return func(o *Orchestrator) {
		if chars > 0 {
			o.postDataLimit = chars
		}
	}
}

// WithArtifactSink enables debug artifact recording.
func WithArtifactSink(sink ArtifactSink) Option {
	return func(o *Orchestrator) { o.artifacts = sink }
}

func NewOrchestrator(classifier Classifier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		classifier:    classifier,
		payloadBudget: DefaultPayloadBudget,
		postDataLimit: DefaultPostDataLimit,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// batchOutcome pairs a batch with its parsed classification result. usable
// is false when the batch produced no match, whether the model said so
// explicitly or its response could not be decoded.
type batchOutcome struct {
	batch      Batch
	localIndex int
	usable     bool
	confidence string
	bullets    []string
}

// Match runs the full pipeline over an already-reduced candidate list.
// A classifier transport failure aborts the run with a retryable coded
// error; a malformed classifier response only degrades the affected unit.
func (o *Orchestrator) Match(ctx context.Context, description string, candidates []har.CandidateRequest) (Result, error) {
	if len(candidates) == 0 {
		return noMatchResult(), nil
	}

	minimal := MinimizeAll(candidates, o.postDataLimit)
	batches := PlanBatches(minimal, o.payloadBudget)
	o.record("batches", batches)

	slog.Debug("planned classification batches",
		"candidates", len(candidates),
		"batches", len(batches),
		"payload_budget", o.payloadBudget,
	)

	outcomes, err := o.classifyBatches(ctx, description, batches)
	if err != nil {
		return Result{}, err
	}

	winners := make([]batchOutcome, 0, len(outcomes))
	for _, oc := range outcomes {
		if oc.usable {
			winners = append(winners, oc)
		}
	}

	switch len(winners) {
	case 0:
		return noMatchResult(), nil
	case 1:
		return o.finalize(candidates, winners[0]), nil
	default:
		return o.arbitrate(ctx, description, candidates, winners)
	}
}

// classifyBatches fans phase 1 out across batches. Each batch's outcome is
// written only by its own goroutine; arbitration waits on the join.
func (o *Orchestrator) classifyBatches(ctx context.Context, description string, batches []Batch) ([]batchOutcome, error) {
	outcomes := make([]batchOutcome, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		g.Go(func() error {
			raw, err := o.classifier.Classify(gctx, batchSystemPrompt, batchUserPrompt(description, batch.Minimal))
			if err != nil {
				return newError(CodeOracleCall, "classification call failed", err)
			}
			o.record("batch_response", map[string]any{"batch_start": batch.Start, "raw": raw})
			outcomes[i] = parseBatchOutcome(batch, raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return outcomes, nil
}

// parseBatchOutcome decodes one phase-1 response. Indices are clamped into
// the batch range; the -1 sentinel is preserved, never clamped into a
// false positive at index 0.
func parseBatchOutcome(batch Batch, raw string) batchOutcome {
	oc := batchOutcome{batch: batch}

	var parsed outcome
	if !decodeOutcome(raw, &parsed) || parsed.MatchedIndex == nil {
		return oc
	}
	idx := *parsed.MatchedIndex
	if idx == noMatchIndex {
		return oc
	}
	if idx < 0 {
		idx = 0
	}
	if idx > batch.Size()-1 {
		idx = batch.Size() - 1
	}

	oc.localIndex = idx
	oc.usable = true
	oc.confidence = parsed.Confidence
	oc.bullets = parsed.ExplanationBullets
	return oc
}

// arbitrate runs phase 2 over the per-batch winners. Any decode failure or
// out-of-range index defaults to the first winner rather than failing.
func (o *Orchestrator) arbitrate(ctx context.Context, description string, candidates []har.CandidateRequest, winners []batchOutcome) (Result, error) {
	entries := make([]arbitrationEntry, len(winners))
	for i, w := range winners {
		c := candidates[w.batch.Start+w.localIndex]
		entries[i] = arbitrationEntry{Method: c.Method, URL: c.URL, ExplanationBullets: w.bullets}
	}

	raw, err := o.classifier.Classify(ctx, arbitrationSystemPrompt, arbitrationUserPrompt(description, entries))
	if err != nil {
		return Result{}, newError(CodeOracleCall, "arbitration call failed", err)
	}
	o.record("arbitration_response", map[string]any{"raw": raw})

	chosen := 0
	var parsed outcome
	if decodeOutcome(raw, &parsed) && parsed.MatchedIndex != nil {
		if idx := *parsed.MatchedIndex; idx >= 0 && idx < len(winners) {
			chosen = idx
		}
	}

	winner := winners[chosen]
	if parsed.Confidence != "" {
		winner.confidence = parsed.Confidence
	}
	if len(parsed.ExplanationBullets) > 0 {
		winner.bullets = parsed.ExplanationBullets
	}
	return o.finalize(candidates, winner), nil
}

func (o *Orchestrator) finalize(candidates []har.CandidateRequest, winner batchOutcome) Result {
	global := winner.batch.Start + winner.localIndex
	res := Result{
		Curl:               curl.Command(candidates[global]),
		MatchedIndex:       &global,
		ExplanationBullets: winner.bullets,
	}
	switch winner.confidence {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		res.Confidence = winner.confidence
	}
	o.record("result", res)
	return res
}

func noMatchResult() Result {
	return Result{
		ExplanationBullets: []string{"No captured request matched the description."},
	}
}

func (o *Orchestrator) record(kind string, v any) {
	if o.artifacts == nil {
		return
	}
	o.artifacts.Record(kind, v)
}
