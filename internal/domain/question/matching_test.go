package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupStrategies_Ordering(t *testing.T) {
	strategies := LookupStrategies()

	require.Len(t, strategies, 3)
	assert.Equal(t, StageExact, strategies[0].Stage)
	assert.Equal(t, StageDecoded, strategies[1].Stage)
	assert.Equal(t, StageCaseInsensitive, strategies[2].Stage)
}

func TestPracticeStrategies_NoCaseInsensitiveStage(t *testing.T) {
	strategies := PracticeStrategies()

	require.Len(t, strategies, 2)
	assert.Equal(t, StageExact, strategies[0].Stage)
	assert.Equal(t, StageDecoded, strategies[1].Stage)
}

func TestExactStrategy_PassesRawValues(t *testing.T) {
	plan, ok := LookupStrategies()[0].Build("C%2FC%2B%2B", "Basic")

	require.True(t, ok)
	assert.Equal(t, Domain("C%2FC%2B%2B"), plan.Domain)
	assert.Equal(t, Level("Basic"), plan.Level)
	assert.False(t, plan.CaseInsensitive)
}

func TestDecodedStrategy_DecodesEncodedDomain(t *testing.T) {
	plan, ok := LookupStrategies()[1].Build("C%2FC%2B%2B", "Basic")

	require.True(t, ok)
	assert.Equal(t, Domain("C/C++"), plan.Domain)
	assert.Equal(t, Level("Basic"), plan.Level)
}

func TestDecodedStrategy_SkipsWhenNothingToDecode(t *testing.T) {
	_, ok := LookupStrategies()[1].Build("Python", "Basic")
	assert.False(t, ok)
}

func TestDecodedStrategy_SkipsOnLiteralPlus(t *testing.T) {
	// "+" в сегменте пути - буквальный символ; декодировать нечего.
	_, ok := LookupStrategies()[1].Build("C/C++", "Basic")
	assert.False(t, ok)
}

func TestDecodedStrategy_SkipsOnInvalidEncoding(t *testing.T) {
	_, ok := LookupStrategies()[1].Build("bad%zz", "Basic")
	assert.False(t, ok)
}

func TestCaseInsensitiveStrategy_AlwaysApplies(t *testing.T) {
	plan, ok := LookupStrategies()[2].Build("python", "basic")

	require.True(t, ok)
	assert.Equal(t, Domain("python"), plan.Domain)
	assert.Equal(t, Level("basic"), plan.Level)
	assert.True(t, plan.CaseInsensitive)
}

func TestCaseInsensitiveStrategy_UsesDecodedDomain(t *testing.T) {
	plan, ok := LookupStrategies()[2].Build("c%2Fc%2B%2B", "basic")

	require.True(t, ok)
	assert.Equal(t, Domain("c/c++"), plan.Domain)
	assert.True(t, plan.CaseInsensitive)
}

func TestCaseInsensitiveStrategy_KeepsLiteralPlus(t *testing.T) {
	plan, ok := LookupStrategies()[2].Build("c/c++", "basic")

	require.True(t, ok)
	assert.Equal(t, Domain("c/c++"), plan.Domain)
	assert.True(t, plan.CaseInsensitive)
}
