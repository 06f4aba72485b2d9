package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

func TestSupports(t *testing.T) {
	e := New()
	assert.True(t, e.Supports("paper.txt"))
	assert.True(t, e.Supports("README.md"))
	assert.True(t, e.Supports("LICENSE"))
	assert.False(t, e.Supports("paper.pdf"))
	assert.False(t, e.Supports("archive.zip"))
}

func TestExtractNormalizesLineEndings(t *testing.T) {
	e := New()
	out, err := e.Extract(context.Background(), []byte("line one\r\nline two\r\n"), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", out)
}

func TestExtractStripsControlCharacters(t *testing.T) {
	e := New()
	out, err := e.Extract(context.Background(), []byte("hello\x00world\x07!"), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "helloworld!", out)
}

func TestExtractCollapsesBlankRuns(t *testing.T) {
	e := New()
	out, err := e.Extract(context.Background(), []byte("para one\n\n\n\n\npara two\n"), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "para one\n\npara two", out)
}

func TestExtractRejectsBinary(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), []byte{0xff, 0xfe, 0x00, 0x80}, "a.txt")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractRejectsEmpty(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), []byte("   \n\t \n"), "a.txt")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
