package gateway

import (
	"context"
	"fmt"

	"github.com/steveyegge/workup/internal/team"
)

// System roles for the three setup prompts.
const (
	RoleWorkload = "You are an AI assistant who assigns project tasks intelligently based on expertise, summarizes project details, and provides expected outcomes."
	RoleWorkflow = "You are an AI assistant that outlines project workflows with detailed steps and expected outcomes."
	RoleNaming   = "You are an AI assistant that generates creative and relevant project names based on descriptions and objectives."
)

// maxDescriptionBytes caps the project description embedded in a prompt.
const maxDescriptionBytes = 20000

// WorkloadPrompt asks for task assignments. Assignments are requested as
// "Name: Task" lines so the reply can be fed to tasks.Parse.
func WorkloadPrompt(description string, members []team.Member) string {
	return fmt.Sprintf(`The project is described as: '%s'.
The following team members with different expertise are involved:
%s.
Please intelligently assign tasks based on their expertise, summarize the project, and provide expected outcomes.
List each assignment on its own line in the form "Name: Task", using the member names exactly as given.`,
		safeTruncateString(description, maxDescriptionBytes),
		team.ExpertiseList(members))
}

// WorkflowPrompt asks for a step-by-step workflow.
func WorkflowPrompt(description string) string {
	return fmt.Sprintf("Provide a detailed step-by-step workflow for the following project: '%s'. "+
		"Include expected outcomes for each step.",
		safeTruncateString(description, maxDescriptionBytes))
}

// NamingPrompt asks for project name suggestions.
func NamingPrompt(description string) string {
	return fmt.Sprintf("Suggest 5 creative and relevant names for the following project: '%s'. "+
		"Ensure the names are unique and reflect the project's objectives.",
		safeTruncateString(description, maxDescriptionBytes))
}

// WorkloadDistribution returns the model's task assignments and summary.
func WorkloadDistribution(ctx context.Context, gw Gateway, description string, members []team.Member) (string, error) {
	return gw.Request(ctx, RoleWorkload, WorkloadPrompt(description, members))
}

// ProjectWorkflow returns the model's workflow steps.
func ProjectWorkflow(ctx context.Context, gw Gateway, description string) (string, error) {
	return gw.Request(ctx, RoleWorkflow, WorkflowPrompt(description))
}

// ProjectNames returns the model's name suggestions.
func ProjectNames(ctx context.Context, gw Gateway, description string) (string, error) {
	return gw.Request(ctx, RoleNaming, NamingPrompt(description))
}
