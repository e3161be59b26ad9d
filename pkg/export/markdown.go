package export

import (
	"fmt"
	"strings"

	"brightideas/entities"
)

// Markdown renders a plan under its idea's title.
func Markdown(ideaTitle string, c entities.PlanContent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s - Implementation Plan\n\n", ideaTitle)
	fmt.Fprintf(&b, "## Summary\n%s\n\n", strings.TrimSpace(c.Summary))

	b.WriteString("## Steps\n\n")
	for _, s := range c.Steps {
		fmt.Fprintf(&b, "### %d. %s\n", s.Order, s.Title)
		if s.Description != "" {
			fmt.Fprintf(&b, "%s\n", s.Description)
		}
		if s.EstimatedTime != nil && *s.EstimatedTime != "" {
			fmt.Fprintf(&b, "**Estimated Time:** %s\n", *s.EstimatedTime)
		}
		b.WriteString("\n")
	}

	if len(c.Resources) > 0 {
		b.WriteString("## Resources\n\n")
		for _, r := range c.Resources {
			fmt.Fprintf(&b, "- **%s**", r.Title)
			if r.URL != nil && *r.URL != "" {
				fmt.Fprintf(&b, " ([Link](%s))", *r.URL)
			}
			if r.Description != nil && *r.Description != "" {
				fmt.Fprintf(&b, " - %s", *r.Description)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
