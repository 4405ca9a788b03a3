package async

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationInvalidatesOlderTokens(t *testing.T) {
	var g Generation
	first := g.Next()
	assert.True(t, g.Valid(first))

	second := g.Next()
	assert.False(t, g.Valid(first))
	assert.True(t, g.Valid(second))
	assert.Equal(t, second, g.Current())
}

func TestRecoverSwallowsPanic(t *testing.T) {
	done := make(chan struct{})
	Go(nil, "test", func() {
		defer close(done)
		panic("boom")
	})
	<-done
}
