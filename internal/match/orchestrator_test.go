package match

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/dgnsrekt/har_scout/internal/har"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClassifier is a deterministic stand-in for the remote oracle. The
// orchestrator classifies batches concurrently, so call recording is
// mutex-guarded.
type stubClassifier struct {
	mu      sync.Mutex
	fn      func(system, user string) (string, error)
	systems []string
}

func (s *stubClassifier) Classify(_ context.Context, system, user string) (string, error) {
	s.mu.Lock()
	s.systems = append(s.systems, system)
	s.mu.Unlock()
	return s.fn(system, user)
}

func (s *stubClassifier) arbitrationCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sys := range s.systems {
		if sys == arbitrationSystemPrompt {
			n++
		}
	}
	return n
}

func fixedResponse(resp string) *stubClassifier {
	return &stubClassifier{fn: func(_, _ string) (string, error) { return resp, nil }}
}

func testCandidates() []har.CandidateRequest {
	return []har.CandidateRequest{
		{Method: "GET", URL: "https://api.x.com/users"},
		{Method: "POST", URL: "https://api.x.com/users", PostData: &har.PostData{Text: `{"name":"ada"}`}},
		{Method: "DELETE", URL: "https://api.x.com/users/1"},
	}
}

func TestMatchSingleBatchWinner(t *testing.T) {
	stub := fixedResponse(`{"matchedIndex":1,"confidence":"high","explanationBullets":["matches path"]}`)
	o := NewOrchestrator(stub)

	res, err := o.Match(context.Background(), "create a user", testCandidates())

	require.NoError(t, err)
	require.NotNil(t, res.MatchedIndex)
	assert.Equal(t, 1, *res.MatchedIndex)
	assert.Equal(t, ConfidenceHigh, res.Confidence)
	assert.Equal(t, []string{"matches path"}, res.ExplanationBullets)
	assert.Contains(t, res.Curl, "'https://api.x.com/users'")
	assert.Contains(t, res.Curl, "-X 'POST'")
	assert.Zero(t, stub.arbitrationCalls(), "single winner must skip arbitration")
}

func TestMatchExplicitNoMatchSentinel(t *testing.T) {
	o := NewOrchestrator(fixedResponse(`{"matchedIndex":-1,"confidence":"none"}`))

	res, err := o.Match(context.Background(), "delete the account", testCandidates())

	require.NoError(t, err)
	assert.Empty(t, res.Curl)
	assert.Nil(t, res.MatchedIndex)
	assert.Empty(t, res.Confidence)
	assert.NotEmpty(t, res.ExplanationBullets)
}

func TestMatchClampsOutOfRangeIndex(t *testing.T) {
	o := NewOrchestrator(fixedResponse(`{"matchedIndex":99,"confidence":"low"}`))

	res, err := o.Match(context.Background(), "anything", testCandidates())

	require.NoError(t, err)
	require.NotNil(t, res.MatchedIndex)
	assert.Equal(t, 2, *res.MatchedIndex)
}

func TestMatchMalformedResponseDegrades(t *testing.T) {
	o := NewOrchestrator(fixedResponse("I think it is the second one."))

	res, err := o.Match(context.Background(), "anything", testCandidates())

	require.NoError(t, err, "unparsable success responses must not fail the run")
	assert.Empty(t, res.Curl)
	assert.Nil(t, res.MatchedIndex)
}

func TestMatchTransportFailurePropagates(t *testing.T) {
	boom := errors.New("connection refused")
	stub := &stubClassifier{fn: func(_, _ string) (string, error) { return "", boom }}
	o := NewOrchestrator(stub)

	_, err := o.Match(context.Background(), "anything", testCandidates())

	require.Error(t, err)
	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, CodeOracleCall, coded.Code)
	assert.ErrorIs(t, err, boom)
}

func TestMatchEmptyCandidateList(t *testing.T) {
	stub := fixedResponse(`{"matchedIndex":0}`)
	o := NewOrchestrator(stub)

	res, err := o.Match(context.Background(), "anything", nil)

	require.NoError(t, err)
	assert.Empty(t, res.Curl)
	assert.Empty(t, stub.systems, "no candidates means no oracle calls")
}

// Two batches each produce a winner; arbitration runs exactly once and its
// local choice maps back through batchStart + localIndex.
func TestMatchArbitrationAcrossBatches(t *testing.T) {
	stub := &stubClassifier{}
	stub.fn = func(system, _ string) (string, error) {
		if system == arbitrationSystemPrompt {
			return `{"matchedIndex":1,"confidence":"high","explanationBullets":["second is the real call"]}`, nil
		}
		return `{"matchedIndex":0,"confidence":"medium","explanationBullets":["plausible"]}`, nil
	}

	// A budget below any single candidate forces one batch per candidate.
	o := NewOrchestrator(stub, WithPayloadBudget(10))
	candidates := testCandidates()[:2]

	res, err := o.Match(context.Background(), "create a user", candidates)

	require.NoError(t, err)
	assert.Equal(t, 1, stub.arbitrationCalls())
	require.NotNil(t, res.MatchedIndex)
	assert.Equal(t, 1, *res.MatchedIndex)
	assert.Equal(t, ConfidenceHigh, res.Confidence)
	assert.Equal(t, []string{"second is the real call"}, res.ExplanationBullets)
	assert.Contains(t, res.Curl, "-X 'POST'")
}

func TestMatchArbitrationGarbageDefaultsToFirstWinner(t *testing.T) {
	stub := &stubClassifier{}
	stub.fn = func(system, _ string) (string, error) {
		if system == arbitrationSystemPrompt {
			return "no idea, sorry", nil
		}
		return `{"matchedIndex":0,"confidence":"medium","explanationBullets":["plausible"]}`, nil
	}

	o := NewOrchestrator(stub, WithPayloadBudget(10))

	res, err := o.Match(context.Background(), "anything", testCandidates()[:2])

	require.NoError(t, err)
	require.NotNil(t, res.MatchedIndex)
	assert.Equal(t, 0, *res.MatchedIndex, "arbitration decode failure defaults to the first winner")
	assert.Equal(t, ConfidenceMedium, res.Confidence)
}

func TestMatchArbitrationOutOfRangeDefaultsToFirstWinner(t *testing.T) {
	stub := &stubClassifier{}
	stub.fn = func(system, _ string) (string, error) {
		if system == arbitrationSystemPrompt {
			return `{"matchedIndex":7}`, nil
		}
		return `{"matchedIndex":0,"confidence":"low"}`, nil
	}

	o := NewOrchestrator(stub, WithPayloadBudget(10))

	res, err := o.Match(context.Background(), "anything", testCandidates()[:2])

	require.NoError(t, err)
	require.NotNil(t, res.MatchedIndex)
	assert.Equal(t, 0, *res.MatchedIndex)
}

func TestMatchMixedBatchOutcomesSkipArbitration(t *testing.T) {
	stub := &stubClassifier{}
	stub.fn = func(system, user string) (string, error) {
		if system == arbitrationSystemPrompt {
			t.Error("arbitration must not run when only one batch matched")
		}
		if strings.Contains(user, "users/1") {
			return `{"matchedIndex":0,"confidence":"high","explanationBullets":["direct hit"]}`, nil
		}
		return `{"matchedIndex":-1,"confidence":"none"}`, nil
	}

	o := NewOrchestrator(stub, WithPayloadBudget(10))
	candidates := testCandidates()

	res, err := o.Match(context.Background(), "delete user one", candidates)

	require.NoError(t, err)
	require.NotNil(t, res.MatchedIndex)
	assert.Equal(t, 2, *res.MatchedIndex)
	assert.Contains(t, res.Curl, "users/1")
}
