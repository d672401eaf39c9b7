package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	stored, err := Password("s3cret-pass")
	require.NoError(t, err)
	assert.Contains(t, stored, ":")

	ok, err := Verify("s3cret-pass", stored)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify("wrong-pass", stored)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordSaltsDiffer(t *testing.T) {
	first, err := Password("same-input")
	require.NoError(t, err)
	second, err := Password("same-input")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyMalformedStored(t *testing.T) {
	_, err := Verify("anything", "not-a-hash")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "malformed"))
}
