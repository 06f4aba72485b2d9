package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-labs/paperdesk/internal/core/domain"
	"github.com/quill-labs/paperdesk/internal/core/ports/driven"
)

// scriptedLLM replays canned chat outputs and records the prompts it saw.
type scriptedLLM struct {
	outputs []string
	calls   int
	prompts []string
	chatErr error
}

func (m *scriptedLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	return "", errors.New("not used")
}

func (m *scriptedLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	if m.chatErr != nil {
		return "", m.chatErr
	}
	m.prompts = append(m.prompts, messages[len(messages)-1].Content)
	out := m.outputs[m.calls%len(m.outputs)]
	m.calls++
	return out, nil
}

func (m *scriptedLLM) ModelName() string             { return "scripted" }
func (m *scriptedLLM) Ping(_ context.Context) error  { return nil }
func (m *scriptedLLM) Close() error                  { return nil }

func TestAnalyzeSingleStep(t *testing.T) {
	llm := &scriptedLLM{outputs: []string{"the analysis"}}
	p := NewPipeline(llm)

	out, err := p.Analyze(context.Background(), "You answer from context only.", "What is X?")
	require.NoError(t, err)
	assert.Equal(t, "the analysis", out)
	assert.Equal(t, 1, llm.calls)
	assert.Contains(t, llm.prompts[0], "What is X?")
}

func TestSummarizeRunsThreeStagesInOrder(t *testing.T) {
	llm := &scriptedLLM{outputs: []string{"research notes", "draft summary", "final summary"}}
	p := NewPipeline(llm)

	out, err := p.Summarize(context.Background(), "paper text", domain.LevelExpert)
	require.NoError(t, err)
	assert.Equal(t, "final summary", out)
	require.Equal(t, 3, llm.calls)

	// Stage 2 consumes stage 1's output, stage 3 consumes stage 2's.
	assert.Contains(t, llm.prompts[1], "research notes")
	assert.Contains(t, llm.prompts[2], "draft summary")
}

func TestSummarizeRejectsUnknownLevel(t *testing.T) {
	p := NewPipeline(&scriptedLLM{outputs: []string{"x"}})

	_, err := p.Summarize(context.Background(), "text", domain.Level("phd"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummarizeTruncatesResearchInput(t *testing.T) {
	llm := &scriptedLLM{outputs: []string{"a", "b", "c"}}
	p := NewPipeline(llm)

	_, err := p.Summarize(context.Background(), strings.Repeat("z", maxResearchInput*2), domain.LevelBeginner)
	require.NoError(t, err)
	assert.Less(t, len(llm.prompts[0]), maxResearchInput+1024)
}

func TestPipelineWithoutLLM(t *testing.T) {
	p := NewPipeline(nil)
	_, err := p.Analyze(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestPipelineMapsDeadlineToTimeout(t *testing.T) {
	llm := &scriptedLLM{chatErr: context.DeadlineExceeded}
	p := NewPipeline(llm)

	_, err := p.Analyze(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, domain.ErrTimeout)
}
