package reqbuilder

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/summitto/tlsn-wise-attestor/internal/planner"
)

func TestMixedHeaderRedactsOnlySecretSubstring(t *testing.T) {
	var w Writer
	w.MixedHeader("Cookie", "s=", "abc123", "; Path=/")
	require.Equal(t, "Cookie: s=abc123; Path=/\r\n", string(w.Bytes()))

	plan := w.Plan()
	require.NoError(t, plan.Validate(w.Len()))

	// Find the span covering "abc123" and assert it is redact-only,
	// while the surrounding bytes are reveal.
	idx := indexOf(w.Bytes(), []byte("abc123"))
	require.True(t, plan.Intersects(idx, idx+6))
	for _, s := range plan {
		if s.Start < idx+6 && idx < s.End {
			require.Equal(t, planner.Redact, s.Disclosure)
		} else {
			require.Equal(t, planner.Reveal, s.Disclosure)
		}
	}
}

func TestRequestLineAndHeadersCoverWholeBuffer(t *testing.T) {
	var w Writer
	w.RequestLine("GET", "/v1/transactions/TX123")
	w.PublicHeader("Host", "api.wise.com")
	w.SecretHeader("Authorization", "Bearer tok123")
	w.EndHeaders()

	require.NoError(t, w.Plan().Validate(w.Len()))
}

func indexOf(haystack, needle []byte) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
