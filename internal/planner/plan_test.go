package planner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderCoalescesAdjacentSpans(t *testing.T) {
	var b Builder
	b.Reveal(3)
	b.Reveal(2)
	b.Redact(4)
	b.RevealNamed(5, "amount")

	plan := b.Plan()
	require.Len(t, plan, 3)
	require.Equal(t, Span{Start: 0, End: 5, Disclosure: Reveal}, plan[0])
	require.Equal(t, Span{Start: 5, End: 9, Disclosure: Redact}, plan[1])
	require.Equal(t, Span{Start: 9, End: 14, Disclosure: Reveal, Name: "amount"}, plan[2])
	require.NoError(t, plan.Validate(14))
}

func TestValidateRejectsGap(t *testing.T) {
	plan := Plan{{Start: 0, End: 3, Disclosure: Reveal}, {Start: 4, End: 6, Disclosure: Redact}}
	require.Error(t, plan.Validate(6))
}

func TestValidateRejectsShortCoverage(t *testing.T) {
	plan := Plan{{Start: 0, End: 3, Disclosure: Reveal}}
	require.Error(t, plan.Validate(10))
}

func TestIntersects(t *testing.T) {
	plan := Plan{{Start: 0, End: 5, Disclosure: Redact}, {Start: 5, End: 10, Disclosure: Reveal}}
	require.True(t, plan.Intersects(3, 7))
	require.False(t, plan.Intersects(10, 20))
}

func TestRevealSpans(t *testing.T) {
	plan := Plan{
		{Start: 0, End: 5, Disclosure: Redact},
		{Start: 5, End: 10, Disclosure: Reveal, Name: "a"},
		{Start: 10, End: 12, Disclosure: Reveal, Name: "b"},
	}
	rev := plan.RevealSpans()
	require.Len(t, rev, 2)
}
