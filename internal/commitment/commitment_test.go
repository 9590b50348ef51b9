package commitment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommitOpenRoundTrip(t *testing.T) {
	value := []byte("primary_amount=123.45")
	c, op := Commit(value)
	require.True(t, Open(c, value, op))
}

func TestOpenRejectsWrongValue(t *testing.T) {
	c, op := Commit([]byte("primary_amount=123.45"))
	require.False(t, Open(c, []byte("primary_amount=999.99"), op))
}

func TestOpenRejectsMismatchedOpening(t *testing.T) {
	value := []byte("primary_amount=123.45")
	c, _ := Commit(value)
	_, otherOp := Commit([]byte("primary_amount=999.99"))
	require.False(t, Open(c, value, otherOp))
}

func TestCommitIsBlinded(t *testing.T) {
	c1, _ := Commit([]byte("same-value"))
	c2, _ := Commit([]byte("same-value"))
	require.NotEqual(t, c1, c2, "two commitments to the same value should differ due to fresh blinding")
}
