package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOutcomePlainJSON(t *testing.T) {
	var out outcome
	ok := decodeOutcome(`{"matchedIndex":1,"confidence":"high"}`, &out)

	require.True(t, ok)
	require.NotNil(t, out.MatchedIndex)
	assert.Equal(t, 1, *out.MatchedIndex)
	assert.Equal(t, "high", out.Confidence)
}

func TestDecodeOutcomeFencedJSON(t *testing.T) {
	raw := "```json\n{\"matchedIndex\":2,\"explanationBullets\":[\"matches path\"]}\n```"

	var out outcome
	ok := decodeOutcome(raw, &out)

	require.True(t, ok)
	require.NotNil(t, out.MatchedIndex)
	assert.Equal(t, 2, *out.MatchedIndex)
	assert.Equal(t, []string{"matches path"}, out.ExplanationBullets)
}

func TestDecodeOutcomeProseWrappedJSON(t *testing.T) {
	raw := "Sure! Here is the result:\n{\"matchedIndex\":0,\"confidence\":\"low\"}\nHope that helps."

	var out outcome
	ok := decodeOutcome(raw, &out)

	require.True(t, ok)
	require.NotNil(t, out.MatchedIndex)
	assert.Equal(t, 0, *out.MatchedIndex)
}

func TestDecodeOutcomeGarbage(t *testing.T) {
	var out outcome
	assert.False(t, decodeOutcome("I could not find anything.", &out))
	assert.False(t, decodeOutcome("", &out))
	assert.False(t, decodeOutcome("``````", &out))
}

func TestDecodeOutcomeOmittedIndex(t *testing.T) {
	var out outcome
	ok := decodeOutcome(`{"confidence":"none"}`, &out)

	require.True(t, ok)
	assert.Nil(t, out.MatchedIndex)
}
