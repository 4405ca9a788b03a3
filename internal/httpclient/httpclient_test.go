package httpclient

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBodyWithinLimit(t *testing.T) {
	got, err := ReadBody(bytes.NewReader([]byte("hello")), 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestReadBodyTooLarge(t *testing.T) {
	_, err := ReadBody(bytes.NewReader([]byte("hello")), 2)
	require.Error(t, err)
	assert.True(t, IsBodyTooLarge(err))

	var limitErr BodyTooLargeError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, int64(2), limitErr.Limit)
}

func TestReadBodyUnlimited(t *testing.T) {
	got, err := ReadBody(bytes.NewReader([]byte("hello")), 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestNewAppliesDefaultTimeout(t *testing.T) {
	c := New(0)
	assert.Equal(t, 60*time.Second, c.Timeout)

	c = New(5 * time.Second)
	assert.Equal(t, 5*time.Second, c.Timeout)
}
