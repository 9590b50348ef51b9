package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/summitto/tlsn-wise-attestor/internal/httpdriver"
	"github.com/summitto/tlsn-wise-attestor/internal/planner"
)

func TestBuildRecvPlanShiftsBodySpans(t *testing.T) {
	bodyPlan := planner.Plan{
		{Start: 0, End: 4, Disclosure: planner.Redact},
		{Start: 4, End: 10, Disclosure: planner.Reveal, Name: "status"},
	}
	result := &httpdriver.Result{BodyOffset: 20, Raw: make([]byte, 30)}

	full := buildRecvPlan(result, bodyPlan)
	require.NoError(t, full.Validate(30))

	require.Equal(t, planner.Span{Start: 0, End: 20, Disclosure: planner.Reveal}, full[0])
	require.Equal(t, planner.Span{Start: 20, End: 24, Disclosure: planner.Redact}, full[1])
	require.Equal(t, planner.Span{Start: 24, End: 30, Disclosure: planner.Reveal, Name: "status"}, full[2])
}

func TestBuildRecvPlanWithNoOffset(t *testing.T) {
	bodyPlan := planner.Plan{{Start: 0, End: 5, Disclosure: planner.Reveal, Name: "a"}}
	result := &httpdriver.Result{BodyOffset: 0, Raw: make([]byte, 5)}

	full := buildRecvPlan(result, bodyPlan)
	require.Len(t, full, 1)
	require.Equal(t, 0, full[0].Start)
}

func TestBuildRecvPlanTranslatesChunkedBody(t *testing.T) {
	// Body (dechunked): "test-ok", split across two chunks of 4 and 3
	// bytes. Raw carries "4\r\ntest\r\n3\r\n-ok\r\n0\r\n\r\n" after the
	// headers, so each chunk's data is offset by its size-line/CRLF
	// framing within raw.
	bodyPlan := planner.Plan{
		{Start: 0, End: 4, Disclosure: planner.Reveal, Name: "a"},
		{Start: 4, End: 7, Disclosure: planner.Reveal, Name: "b"},
	}
	result := &httpdriver.Result{
		BodyOffset: 10,
		Raw:        make([]byte, 10+len("4\r\ntest\r\n3\r\n-ok\r\n0\r\n\r\n")),
		ChunkMap: []httpdriver.ChunkSpan{
			{BodyStart: 0, RawStart: 10 + len("4\r\n"), Length: 4},
			{BodyStart: 4, RawStart: 10 + len("4\r\ntest\r\n3\r\n"), Length: 3},
		},
	}

	full := buildRecvPlan(result, bodyPlan)
	require.NoError(t, full.Validate(len(result.Raw)))

	var revealed []planner.Span
	for _, s := range full {
		if s.Disclosure == planner.Reveal && s.Name != "" {
			revealed = append(revealed, s)
		}
	}
	require.Len(t, revealed, 2)
	require.Equal(t, "a", revealed[0].Name)
	require.Equal(t, 4, revealed[0].Len())
	require.Equal(t, "b", revealed[1].Name)
	require.Equal(t, 3, revealed[1].Len())
}
