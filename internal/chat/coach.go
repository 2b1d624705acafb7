package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ananya/resumatch/internal/llm"
	"github.com/ananya/resumatch/internal/prompts"
	"github.com/ananya/resumatch/internal/types"
)

// Request is one chat turn with the analysis context it refers to.
type Request struct {
	Question string
	Report   *types.AnalysisReport
}

// Quiz is a generated knowledge check.
type Quiz struct {
	Topic     string         `json:"topic"`
	Questions []QuizQuestion `json:"questions"`
}

// QuizQuestion is one multiple-choice question.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
}

// Project is a generated portfolio project idea.
type Project struct {
	Skill       string   `json:"skill"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Milestones  []string `json:"milestones"`
	StretchGoal string   `json:"stretch_goal"`
}

// Coach answers roadmap questions and dispatches quiz and project
// commands embedded in model replies.
type Coach struct {
	client llm.Client
}

// NewCoach builds a coach over the given model client.
func NewCoach(client llm.Client) *Coach {
	return &Coach{client: client}
}

// Reply answers one chat turn. Command tags in the model's reply are
// expanded in place; a generator failure degrades that tag to a short
// notice instead of failing the whole reply.
func (c *Coach) Reply(ctx context.Context, req Request) (string, error) {
	template, err := prompts.Get("chat.json", "career-coach")
	if err != nil {
		return "", err
	}

	prompt := prompts.Format(template, map[string]string{
		"Roadmap":   formatRoadmap(req.Report),
		"SkillGaps": formatGaps(req.Report),
		"Role":      detectedRole(req.Report),
		"Question":  req.Question,
	})

	reply, err := c.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", fmt.Errorf("chat reply failed: %w", err)
	}

	return c.expandCommands(ctx, reply), nil
}

// expandCommands substitutes each command tag with its generator output.
func (c *Coach) expandCommands(ctx context.Context, reply string) string {
	for _, cmd := range ParseCommands(reply) {
		var expansion string
		var err error
		switch cmd.Kind {
		case RequestQuiz:
			var quiz *Quiz
			quiz, err = c.GenerateQuiz(ctx, cmd.Arg)
			if err == nil {
				expansion = renderQuiz(quiz)
			}
		case RequestProject:
			var project *Project
			project, err = c.GenerateProject(ctx, cmd.Arg)
			if err == nil {
				expansion = renderProject(project)
			}
		}
		if err != nil {
			expansion = fmt.Sprintf("Sorry, I could not prepare that for %s right now.", cmd.Arg)
		}
		reply = strings.Replace(reply, cmd.Raw, expansion, 1)
	}
	return reply
}

// GenerateQuiz produces a three-question quiz on a topic.
func (c *Coach) GenerateQuiz(ctx context.Context, topic string) (*Quiz, error) {
	template, err := prompts.Get("chat.json", "generate-quiz")
	if err != nil {
		return nil, err
	}
	prompt := prompts.Format(template, map[string]string{"Topic": topic})

	raw, err := c.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("quiz generation failed: %w", err)
	}

	var quiz Quiz
	if err := json.Unmarshal([]byte(raw), &quiz); err != nil {
		return nil, fmt.Errorf("failed to parse quiz response: %w", err)
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("quiz response had no questions")
	}
	return &quiz, nil
}

// GenerateProject produces a portfolio project idea for a skill.
func (c *Coach) GenerateProject(ctx context.Context, skill string) (*Project, error) {
	template, err := prompts.Get("chat.json", "generate-project")
	if err != nil {
		return nil, err
	}
	prompt := prompts.Format(template, map[string]string{"Skill": skill})

	raw, err := c.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("project generation failed: %w", err)
	}

	var project Project
	if err := json.Unmarshal([]byte(raw), &project); err != nil {
		return nil, fmt.Errorf("failed to parse project response: %w", err)
	}
	if project.Title == "" {
		return nil, fmt.Errorf("project response had no title")
	}
	return &project, nil
}

func renderQuiz(quiz *Quiz) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Quick quiz on %s:**\n", quiz.Topic)
	for i, q := range quiz.Questions {
		fmt.Fprintf(&sb, "\n%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			fmt.Fprintf(&sb, "   %c) %s\n", 'a'+j, opt)
		}
	}
	return sb.String()
}

func renderProject(project *Project) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Project idea: %s**\n\n%s\n", project.Title, project.Description)
	if len(project.Milestones) > 0 {
		sb.WriteString("\nMilestones:\n")
		for _, m := range project.Milestones {
			fmt.Fprintf(&sb, "- %s\n", m)
		}
	}
	if project.StretchGoal != "" {
		fmt.Fprintf(&sb, "\nStretch goal: %s\n", project.StretchGoal)
	}
	return sb.String()
}

func formatRoadmap(report *types.AnalysisReport) string {
	if report == nil || len(report.Roadmap) == 0 {
		return "(no roadmap yet)"
	}
	var sb strings.Builder
	for _, item := range report.Roadmap {
		fmt.Fprintf(&sb, "Month %d: %s (%s)\n", item.Month, item.Skill, item.CourseTitle)
	}
	return sb.String()
}

func formatGaps(report *types.AnalysisReport) string {
	if report == nil {
		return "(unknown)"
	}
	gaps := report.GapSkills()
	if len(gaps) == 0 {
		return "(none detected)"
	}
	return strings.Join(gaps, ", ")
}

func detectedRole(report *types.AnalysisReport) string {
	if report == nil || report.DetectedRole == "" {
		return "Professional"
	}
	return report.DetectedRole
}
