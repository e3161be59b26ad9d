package ai

import (
	"fmt"
	"strings"

	"brightideas/entities"
)

const (
	questionsSystem = "You are a helpful business consultant. Always respond with valid JSON only."
	planSystem      = "You are a helpful project manager. Always respond with valid JSON only."
)

func renderQuestionsPrompt(ic IdeaContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert consultant helping someone refine their idea.

Given this idea:
Title: "%s"
Description: "%s"
`, ic.Title, ic.Description)
	if len(ic.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(ic.Tags, ", "))
	}
	if len(ic.PreviousAnswers) > 0 {
		b.WriteString("\nAnswers from the previous refinement round:\n")
		writeQA(&b, ic.PreviousAnswers)
	}
	if ic.ActivePlanSummary != "" {
		fmt.Fprintf(&b, "\nCurrent plan summary: %s\n", ic.ActivePlanSummary)
	}
	fmt.Fprintf(&b, `
Generate %d-%d specific, thoughtful questions that will help clarify and improve this idea. Focus on:
- Target audience and users
- Implementation approach
- Market positioning
- Technical requirements
- Business model considerations
`, MinQuestions, MaxQuestions)
	if len(ic.PreviousAnswers) > 0 {
		b.WriteString("Do not repeat questions that were already answered; dig into what is still unclear.\n")
	}
	b.WriteString(`
Return ONLY a JSON array of questions in this exact format:
[
  {"id": "q1", "question": "Who specifically are your target users and what problem does this solve for them?"},
  {"id": "q2", "question": "How do you envision users accessing this - web app, mobile app, browser extension, or API?"}
]

Make each question specific to this idea. Avoid generic questions.`)
	return b.String()
}

func renderPlanPrompt(ic IdeaContext, qa []entities.QA) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert project manager creating an implementation plan.

Original Idea:
Title: "%s"
Description: "%s"

Refinement Details:
`, ic.Title, ic.Description)
	writeQA(&b, qa)
	b.WriteString(`
Create a detailed implementation plan with:
1. A clear 1-paragraph summary of the refined idea
2. 5-10 specific, actionable steps to build this
3. Helpful resources (tools, articles, services)

Return ONLY a JSON object in this exact format:
{
  "summary": "A clear paragraph describing what will be built and for whom...",
  "steps": [
    {"order": 1, "title": "Research and Planning", "description": "Analyze competitors and define core features", "estimated_time": "1-2 weeks"}
  ],
  "resources": [
    {"title": "Figma", "url": "https://figma.com", "type": "tool", "description": "For creating mockups and prototypes"}
  ]
}

Make it specific to this exact idea and answers.`)
	return b.String()
}

func writeQA(b *strings.Builder, qa []entities.QA) {
	for _, p := range qa {
		q := p.Question
		if q == "" {
			q = p.QuestionID
		}
		fmt.Fprintf(b, "Q: %s\nA: %s\n", q, p.Answer)
	}
}
