package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quill-labs/paperdesk/internal/core/domain"
	"github.com/quill-labs/paperdesk/internal/core/ports/driven"
	"github.com/quill-labs/paperdesk/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driven.AnalysisService = (*Pipeline)(nil)

// Pipeline executes agent task lists against an LLM service.
type Pipeline struct {
	llm  driven.LLMService
	opts driven.ChatOptions
}

// NewPipeline creates a pipeline over the given LLM service.
func NewPipeline(llm driven.LLMService) *Pipeline {
	return &Pipeline{
		llm:  llm,
		opts: driven.ChatOptions{Temperature: 0.2},
	}
}

// run executes tasks sequentially. Each task sees the previous task's
// output as additional context; the final task's output is the result.
func (p *Pipeline) run(ctx context.Context, tasks []Task) (string, error) {
	if p.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	var prior string
	for i, task := range tasks {
		logger.Debug("Pipeline step %d/%d: %s", i+1, len(tasks), task.Agent.Role)

		messages := []driven.ChatMessage{
			{Role: "system", Content: task.Agent.systemPrompt()},
			{Role: "user", Content: joinContext(task.Description, prior) +
				"\n\nExpected output: " + task.ExpectedOutput},
		}

		output, err := p.llm.Chat(ctx, messages, p.opts)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return "", fmt.Errorf("pipeline step %d (%s): %w", i+1, task.Agent.Role, domain.ErrTimeout)
			}
			return "", fmt.Errorf("pipeline step %d (%s): %w", i+1, task.Agent.Role, err)
		}
		prior = output
	}

	return strings.TrimSpace(prior), nil
}

// Analyze answers userPrompt with a single analyst step framed by
// systemPrompt.
func (p *Pipeline) Analyze(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	task := Task{
		Agent:          analystAgent,
		Description:    systemPrompt + "\n\nUser Query: " + userPrompt,
		ExpectedOutput: "A comprehensive analysis and answer to the user's query based on the given context.",
	}
	return p.run(ctx, []Task{task})
}

// Summarize runs the researcher, writer, and editor stages over text.
func (p *Pipeline) Summarize(ctx context.Context, text string, level domain.Level) (string, error) {
	if !level.Valid() {
		return "", fmt.Errorf("%w: invalid summarization level %q", domain.ErrInvalidInput, level)
	}
	logger.Debug("Starting summarization pipeline, level=%s", level)
	return p.run(ctx, summaryTasks(text, level))
}
