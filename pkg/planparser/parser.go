// Package planparser turns pasted or uploaded plan text into the
// summary/steps/resources shape used by generated plans.
//
// Input is tried in this order, first match wins:
//
//  1. an exported plan JSON document (exact reconstruction)
//  2. HTML, flattened to Markdown-like lines with goquery, then step 3
//  3. Markdown with "## Summary" / "## Steps" / "## Resources" style sections
//  4. anything else: first paragraph is the summary, list lines are steps,
//     and failing that the whole text becomes a single step
//
// Text outside recognised sections is dropped.
package planparser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"brightideas/entities"
	"brightideas/pkg/export"
)

type Format string

const (
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

type Draft struct {
	Title   string
	Format  Format
	Content entities.PlanContent
}

var ErrEmpty = errors.New("plan content is empty")

const maxFallbackStep = 500

func Parse(raw string) (Draft, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if raw == "" {
		return Draft{}, ErrEmpty
	}
	if strings.HasPrefix(raw, "{") {
		if doc, err := export.DecodeDocument([]byte(raw)); err == nil {
			c := doc.Content()
			c.Steps = entities.NormalizeSteps(c.Steps)
			title := doc.Plan.Title
			if title == "" {
				title = doc.Idea.Title
			}
			return Draft{Title: title, Format: FormatJSON, Content: c}, nil
		}
	}
	format := FormatMarkdown
	if looksLikeHTML(raw) {
		text, err := htmlToMarkdown(raw)
		if err != nil {
			return Draft{}, fmt.Errorf("read html: %w", err)
		}
		raw = strings.TrimSpace(text)
		format = FormatHTML
		if raw == "" {
			return Draft{}, ErrEmpty
		}
	}
	d, ok := parseSections(raw)
	if !ok {
		d = parseUnstructured(raw)
		if format == FormatMarkdown {
			format = FormatText
		}
	}
	d.Format = format
	return d, nil
}

type section int

const (
	secNone section = iota
	secSummary
	secSteps
	secResources
)

var (
	headingRX  = regexp.MustCompile(`^(#{1,6})\s*(.+?)\s*#*$`)
	numberedRX = regexp.MustCompile(`^(\d+)[.)]\s+(.+)$`)
	bulletRX   = regexp.MustCompile(`^[-*+•]\s+(.+)$`)
	estimateRX = regexp.MustCompile(`(?i)^\*{0,2}(?:estimated time|time|duration|estimate)\s*:\s*\*{0,2}\s*(.+)$`)
)

func classify(heading string) section {
	h := strings.ToLower(heading)
	switch {
	case strings.Contains(h, "summary") || strings.Contains(h, "overview"):
		return secSummary
	case containsAny(h, "step", "implementation", "plan", "breakdown", "phase", "milestone"):
		return secSteps
	case containsAny(h, "resource", "tool", "reference", "link"):
		return secResources
	}
	return secNone
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// parseSections handles Markdown with recognised section headings. ok is
// false when no section heading was found.
func parseSections(raw string) (Draft, bool) {
	var (
		d         Draft
		cur       = secNone
		found     bool
		summary   []string
		steps     stepBuilder
		resources []entities.Resource
	)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := headingRX.FindStringSubmatch(line); m != nil {
			level, text := len(m[1]), m[2]
			if level == 1 {
				if d.Title == "" {
					d.Title = stripTitleSuffix(text)
				}
				continue
			}
			// Sub-headings inside Steps are steps, not new sections.
			if level >= 3 && cur == secSteps {
				if numberedRX.MatchString(text) || classify(text) == secNone {
					steps.heading(text)
					continue
				}
			}
			cur = classify(text)
			if cur != secNone {
				found = true
			}
			continue
		}
		switch cur {
		case secSummary:
			summary = append(summary, line)
		case secSteps:
			steps.line(line)
		case secResources:
			if r, ok := parseResource(line); ok {
				resources = append(resources, r)
			}
		}
	}
	if !found {
		return d, false
	}
	d.Content.Steps = steps.done()
	d.Content.Resources = resources
	if d.Content.Resources == nil {
		d.Content.Resources = []entities.Resource{}
	}
	d.Content.Summary = strings.TrimSpace(strings.Join(summary, "\n"))
	if d.Content.Summary == "" {
		d.Content.Summary = defaultSummary(d.Title, len(d.Content.Steps))
	}
	return d, true
}

func stripTitleSuffix(t string) string {
	t = strings.TrimSpace(t)
	for _, suf := range []string{"- Implementation Plan", "– Implementation Plan", "Implementation Plan"} {
		if strings.HasSuffix(t, suf) && len(t) > len(suf) {
			return strings.TrimSpace(strings.TrimSuffix(t, suf))
		}
	}
	return t
}

func defaultSummary(title string, n int) string {
	if title != "" {
		return fmt.Sprintf("Implementation plan for %s with %d steps.", title, n)
	}
	return fmt.Sprintf("Implementation plan with %d steps.", n)
}

// stepBuilder accumulates step lines; continuation lines extend the last step.
type stepBuilder struct {
	steps []entities.Step
	next  int
}

func (b *stepBuilder) start(order int, text string) {
	if order <= 0 {
		order = b.next + 1
	}
	title, desc, est := splitStep(text)
	b.steps = append(b.steps, entities.Step{Order: order, Title: title, Description: desc, EstimatedTime: est})
	b.next = order
}

func (b *stepBuilder) heading(text string) {
	if m := numberedRX.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		b.start(n, m[2])
		return
	}
	b.start(0, text)
}

func (b *stepBuilder) line(line string) {
	if m := numberedRX.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[1])
		b.start(n, m[2])
		return
	}
	if m := bulletRX.FindStringSubmatch(line); m != nil {
		b.start(0, m[1])
		return
	}
	if len(b.steps) == 0 {
		return
	}
	last := &b.steps[len(b.steps)-1]
	if m := estimateRX.FindStringSubmatch(line); m != nil && last.EstimatedTime == nil {
		est := strings.TrimSpace(strings.Trim(m[1], "*"))
		last.EstimatedTime = &est
		return
	}
	if last.Description == "" {
		last.Description = line
	} else {
		last.Description += " " + line
	}
}

func (b *stepBuilder) done() []entities.Step {
	if b.steps == nil {
		return []entities.Step{}
	}
	return entities.NormalizeSteps(b.steps)
}

var (
	prefixedTimeRX = regexp.MustCompile(`(?i)\(\s*(?:time|duration|estimate)\s*:\s*([^)]+)\)`)
	unitTimeRX     = regexp.MustCompile(`(?i)\(([^()]*\b\d[^()]*\b(?:minutes?|mins?|hours?|hrs?|days?|weeks?|wks?|months?|sprints?)\b[^()]*)\)`)
)

var separators = []string{" - ", ": ", " – ", " — "}

// splitStep reads "Title - description (time: 2 weeks)".
func splitStep(text string) (title, desc string, est *string) {
	for _, rx := range []*regexp.Regexp{prefixedTimeRX, unitTimeRX} {
		if m := rx.FindStringSubmatchIndex(text); m != nil {
			e := strings.TrimSpace(text[m[2]:m[3]])
			est = &e
			text = strings.TrimSpace(text[:m[0]] + text[m[1]:])
			break
		}
	}
	title = text
	for _, sep := range separators {
		if i := strings.Index(text, sep); i >= 0 {
			title, desc = text[:i], strings.TrimSpace(text[i+len(sep):])
			break
		}
	}
	title = strings.TrimSpace(strings.Trim(strings.TrimSpace(title), "*#-"))
	return title, desc, est
}

var (
	boldRX = regexp.MustCompile(`^\*\*(.+?)\*\*`)
	linkRX = regexp.MustCompile(`\(?\s*\[([^\]]+)\]\(([^)\s]+)\)\s*\)?`)
)

func parseResource(line string) (entities.Resource, bool) {
	if m := bulletRX.FindStringSubmatch(line); m != nil {
		line = m[1]
	} else if m := numberedRX.FindStringSubmatch(line); m != nil {
		line = m[2]
	}
	var title, url, rest string
	rest = line
	if m := boldRX.FindStringSubmatch(rest); m != nil {
		title = strings.TrimSpace(m[1])
		rest = rest[len(m[0]):]
	}
	if m := linkRX.FindStringSubmatchIndex(rest); m != nil {
		if title == "" {
			title = strings.TrimSpace(rest[m[2]:m[3]])
		}
		url = rest[m[4]:m[5]]
		rest = rest[:m[0]] + " " + rest[m[1]:]
	}
	rest = strings.TrimSpace(rest)
	if title == "" {
		title = rest
		rest = ""
		if i := strings.Index(title, " - "); i >= 0 {
			title, rest = title[:i], title[i+3:]
		}
	}
	desc := strings.TrimSpace(strings.TrimLeft(rest, "-–—: "))
	title = strings.TrimSpace(title)
	if title == "" {
		return entities.Resource{}, false
	}
	r := entities.Resource{Title: title, Type: detectResourceType(title, desc)}
	if url != "" {
		r.URL = &url
	}
	if desc != "" {
		r.Description = &desc
	}
	return r, true
}

func detectResourceType(title, desc string) string {
	s := strings.ToLower(title + " " + desc)
	switch {
	case containsAny(s, "api", "service", "platform", "subscription"):
		return "service"
	case containsAny(s, "library", "framework", "tool", "software", "cli", "package"):
		return "tool"
	case containsAny(s, "article", "blog", "tutorial", "guide", "documentation", "docs"):
		return "article"
	case containsAny(s, "github", "repo", "repository", "code"):
		return "repository"
	}
	return "tool"
}

// parseUnstructured is the last resort for text without section headings.
func parseUnstructured(raw string) Draft {
	var d Draft
	var b stepBuilder
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if m := numberedRX.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			b.start(n, m[2])
		} else if m := bulletRX.FindStringSubmatch(line); m != nil {
			b.start(0, m[1])
		}
	}
	for _, p := range strings.Split(raw, "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" || numberedRX.MatchString(p) || bulletRX.MatchString(p) {
			continue
		}
		if m := headingRX.FindStringSubmatch(p); m != nil && !strings.Contains(p, "\n") {
			if d.Title == "" {
				d.Title = m[2]
			}
			continue
		}
		d.Content.Summary = p
		break
	}
	if d.Content.Summary == "" {
		d.Content.Summary = "Uploaded implementation plan"
	}
	d.Content.Steps = b.done()
	if len(d.Content.Steps) == 0 {
		desc := raw
		if utf8.RuneCountInString(desc) > maxFallbackStep {
			desc = string([]rune(desc)[:maxFallbackStep]) + "..."
		}
		d.Content.Steps = []entities.Step{{Order: 1, Title: "Implementation Plan", Description: desc}}
	}
	d.Content.Resources = []entities.Resource{}
	return d
}
