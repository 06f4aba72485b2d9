// Package agents runs role-configured LLM task pipelines.
//
// A pipeline is an ordered task list executed sequentially; each task is
// handled by one agent and consumes the previous task's output as
// context. The package implements the core's AnalysisService port.
package agents

import (
	"fmt"
	"strings"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

// Agent describes a role the LLM plays for one task.
type Agent struct {
	// Role is the short role name, e.g. "Researcher".
	Role string

	// Goal is what the agent is trying to achieve.
	Goal string

	// Backstory frames the agent's expertise.
	Backstory string
}

// Task is one step of a pipeline.
type Task struct {
	// Agent performs the task.
	Agent Agent

	// Description is the instruction for this step.
	Description string

	// ExpectedOutput tells the agent what shape of answer to produce.
	ExpectedOutput string
}

// systemPrompt renders the agent as a chat system message.
func (a Agent) systemPrompt() string {
	return fmt.Sprintf("You are a %s. Your goal: %s\n%s", a.Role, a.Goal, a.Backstory)
}

// analystAgent handles single-step analysis requests.
var analystAgent = Agent{
	Role:      "Research Analyst",
	Goal:      "Analyze and summarize research paper search results",
	Backstory: "You are an expert in analyzing academic literature and identifying key trends and insights.",
}

// summaryAgents is the three-stage summarization crew.
func summaryAgents() (researcher, writer, editor Agent) {
	researcher = Agent{
		Role:      "Researcher",
		Goal:      "Thoroughly analyze research papers and extract key information",
		Backstory: "You are an expert researcher with years of experience in analyzing academic papers across various fields.",
	}
	writer = Agent{
		Role:      "Technical Writer",
		Goal:      "Create clear and concise summaries of research papers",
		Backstory: "You are a skilled technical writer specializing in transforming complex academic content into accessible summaries.",
	}
	editor = Agent{
		Role:      "Editor",
		Goal:      "Ensure the summary is accurate, well-structured, and tailored to the specified expertise level",
		Backstory: "You are an experienced editor with a keen eye for detail and a talent for adapting content to different audience levels.",
	}
	return researcher, writer, editor
}

// summaryTasks builds the ordered task list for summarizing text at the
// given level. The text is truncated for the research stage; later
// stages work from the prior stage's output.
func summaryTasks(text string, level domain.Level) []Task {
	researcher, writer, editor := summaryAgents()

	truncated := text
	if len(truncated) > maxResearchInput {
		truncated = truncated[:maxResearchInput]
	}

	return []Task{
		{
			Agent: researcher,
			Description: "Analyze the following research paper and identify the key points, methodology, and findings:\n\n" +
				truncated,
			ExpectedOutput: "A detailed analysis of the research paper's key points, methodology, and findings.",
		},
		{
			Agent: writer,
			Description: fmt.Sprintf("Using the analysis provided, create a summary of the research paper. "+
				"Adjust the complexity based on the expertise level: %s", level),
			ExpectedOutput: fmt.Sprintf("A clear and concise summary of the research paper, tailored to the %s expertise level.", level),
		},
		{
			Agent: editor,
			Description: fmt.Sprintf("Review and refine the summary, ensuring it's appropriate for the %s expertise level. "+
				"Make any necessary adjustments for clarity and accuracy.", level),
			ExpectedOutput: fmt.Sprintf("A polished, accurate, and well-structured summary appropriate for the %s expertise level.", level),
		},
	}
}

// maxResearchInput bounds the text handed to the research stage.
const maxResearchInput = 4000

// joinContext appends the prior stage's output to a task description.
func joinContext(description, prior string) string {
	prior = strings.TrimSpace(prior)
	if prior == "" {
		return description
	}
	return description + "\n\nContext from the previous step:\n" + prior
}
