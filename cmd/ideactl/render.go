package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"brightideas/entities"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
)

func renderIdeas(w io.Writer, ideas []entities.Idea) {
	if len(ideas) == 0 {
		fmt.Fprintln(w, "No ideas.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tTAGS\tUPDATED")
	for _, i := range ideas {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			i.ID, i.Status, i.Title, strings.Join(i.Tags, ","), i.UpdatedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

const summaryTags = 10

// renderSummary prints the footer under an idea table.
func renderSummary(w io.Writer, active int, tags []entities.TagCount) {
	line := fmt.Sprintf("%d active", active)
	if len(tags) > summaryTags {
		tags = tags[:summaryTags]
	}
	if len(tags) > 0 {
		parts := make([]string, len(tags))
		for n, t := range tags {
			parts[n] = fmt.Sprintf("%s(%d)", t.Tag, t.Count)
		}
		line += "  Tags: " + strings.Join(parts, " ")
	}
	fmt.Fprintf(w, "\n%s\n", mutedStyle.Render(line))
}

func renderIdea(w io.Writer, d *entities.IdeaDetail) {
	fmt.Fprintln(w, headingStyle.Render(d.Title))
	fmt.Fprintf(w, "%s  %s\n", d.Status, mutedStyle.Render(d.ID))
	if len(d.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(d.Tags, ", "))
	}
	fmt.Fprintf(w, "\n%s\n", d.OriginalDescription)
	fmt.Fprintf(w, "\nSessions: %d  Plans: %d\n", d.SessionCount, d.PlanCount)
	if d.LatestSession != nil {
		fmt.Fprintln(w)
		renderSession(w, d.LatestSession)
	}
	if d.ActivePlan != nil {
		fmt.Fprintln(w)
		renderPlan(w, d.ActivePlan)
	}
}

func renderSession(w io.Writer, s *entities.RefinementSession) {
	state := "open"
	if s.IsComplete {
		state = "complete"
	}
	fmt.Fprintf(w, "%s %s\n", headingStyle.Render("Session "+s.ID), mutedStyle.Render("("+state+")"))
	for _, q := range s.Questions {
		fmt.Fprintf(w, "  [%s] %s\n", q.ID, q.Question)
		if a := strings.TrimSpace(s.Answers[q.ID]); a != "" {
			fmt.Fprintf(w, "      > %s\n", a)
		}
	}
}

func renderPlans(w io.Writer, plans []entities.Plan) {
	if len(plans) == 0 {
		fmt.Fprintln(w, "No plans.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tACTIVE\tSTATUS\tSOURCE\tSTEPS\tCREATED")
	for _, p := range plans {
		active := ""
		if p.IsActive {
			active = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			p.ID, active, p.Status, p.Source, len(p.Steps), p.CreatedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func renderPlan(w io.Writer, p *entities.Plan) {
	title := p.Title
	if title == "" {
		title = "Plan"
	}
	head := headingStyle.Render(title)
	if p.IsActive {
		head += " " + activeStyle.Render("[active]")
	}
	fmt.Fprintln(w, head)
	fmt.Fprintf(w, "%s  %s\n", p.Status, mutedStyle.Render(p.ID))
	if p.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", p.Summary)
	}
	if len(p.Steps) > 0 {
		fmt.Fprintln(w)
	}
	for _, s := range p.Steps {
		line := fmt.Sprintf("%d. %s", s.Order, s.Title)
		if s.EstimatedTime != nil && *s.EstimatedTime != "" {
			line += " " + mutedStyle.Render("("+*s.EstimatedTime+")")
		}
		fmt.Fprintln(w, line)
		if s.Description != "" {
			fmt.Fprintf(w, "   %s\n", s.Description)
		}
	}
	if len(p.Resources) > 0 {
		fmt.Fprintf(w, "\n%s\n", headingStyle.Render("Resources"))
	}
	for _, r := range p.Resources {
		line := fmt.Sprintf("- %s [%s]", r.Title, r.Type)
		if r.URL != nil && *r.URL != "" {
			line += " " + *r.URL
		}
		fmt.Fprintln(w, line)
	}
}
