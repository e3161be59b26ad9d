package planparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var htmlRX = regexp.MustCompile(`(?i)<\s*(html|body|article|main|div|h[1-6]|p|ul|ol|li)\b[^>]*>`)

func looksLikeHTML(s string) bool {
	return strings.HasPrefix(s, "<") || htmlRX.MatchString(s)
}

// htmlToMarkdown keeps headings, paragraphs and list items, in document
// order, as Markdown lines so the section parser can read them.
func htmlToMarkdown(raw string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", err
	}
	sel := doc.Find("main, article")
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	var lines []string
	sel.Find("h1,h2,h3,h4,h5,h6,p,li").Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		if name != "li" && s.ParentsFiltered("li").Length() > 0 {
			return
		}
		t := inline(s)
		if t == "" {
			return
		}
		switch {
		case len(name) == 2 && name[0] == 'h':
			n, _ := strconv.Atoi(name[1:])
			lines = append(lines, strings.Repeat("#", n)+" "+t)
		case name == "li" && goquery.NodeName(s.Parent()) == "ol":
			start := 1
			if v, ok := s.Parent().Attr("start"); ok {
				if n, err := strconv.Atoi(v); err == nil {
					start = n
				}
			}
			lines = append(lines, fmt.Sprintf("%d. %s", start+s.PrevAllFiltered("li").Length(), t))
		case name == "li":
			lines = append(lines, "- "+t)
		default:
			lines = append(lines, t)
		}
	})
	return strings.Join(lines, "\n"), nil
}

var spaceRX = regexp.MustCompile(`\s+`)

// inline flattens an element's text, keeping links and bold as Markdown.
// Nested lists are left to their own li entries.
func inline(s *goquery.Selection) string {
	var b strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "#text":
			b.WriteString(c.Text())
		case "a":
			text := strings.TrimSpace(c.Text())
			if href, ok := c.Attr("href"); ok && href != "" {
				fmt.Fprintf(&b, "[%s](%s)", text, href)
			} else {
				b.WriteString(text)
			}
		case "strong", "b":
			fmt.Fprintf(&b, "**%s**", strings.TrimSpace(c.Text()))
		case "ul", "ol", "script", "style":
		case "br":
			b.WriteString(" ")
		default:
			b.WriteString(inline(c))
		}
	})
	return strings.TrimSpace(spaceRX.ReplaceAllString(b.String(), " "))
}
