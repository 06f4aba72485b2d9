package contenthash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSumDeterministic(t *testing.T) {
	assert.Equal(t, Sum("Hello world."), Sum("Hello world."))
}

func TestSumDistinguishesContent(t *testing.T) {
	assert.NotEqual(t, Sum("Hello world."), Sum("Hello world"))
}

func TestSumEmptyText(t *testing.T) {
	// SHA-256 of the empty string.
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Sum(""))
}

func TestShort(t *testing.T) {
	sum := Sum("abc")
	short := Short("abc")
	assert.Len(t, short, 12)
	assert.Equal(t, sum[:12], short)
}
