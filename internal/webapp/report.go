package webapp

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/joelkehle/solution-navigator/internal/assessment"
)

var (
	h2Re      = regexp.MustCompile(`<h2>([^<]+)</h2>`)
	nonSlugRe = regexp.MustCompile(`[^a-z0-9-]`)
)

// SectionID derives the navigation anchor for a heading: lower-case,
// whitespace to hyphens, then strip everything outside [a-z0-9-].
func SectionID(heading string) string {
	s := strings.ToLower(strings.TrimSpace(heading))
	s = strings.Join(strings.Fields(s), "-")
	return nonSlugRe.ReplaceAllString(s, "")
}

// renderReportHTML converts the report markdown to HTML and stamps each H2
// with its section anchor so the nav links work.
func renderReportHTML(markdown string) (string, error) {
	var buf strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	out := h2Re.ReplaceAllStringFunc(buf.String(), func(match string) string {
		heading := h2Re.FindStringSubmatch(match)[1]
		return fmt.Sprintf(`<h2 id=%q>%s</h2>`, SectionID(html.UnescapeString(heading)), heading)
	})
	return out, nil
}

type navEntry struct {
	ID    string
	Label string
}

// sectionNav lists the required report sections that actually appear in the
// generated markdown, in the canonical order.
func sectionNav(markdown string) []navEntry {
	var nav []navEntry
	for _, heading := range assessment.RequiredReportSections {
		if strings.Contains(markdown, "## "+heading) {
			nav = append(nav, navEntry{ID: SectionID(heading), Label: heading})
		}
	}
	return nav
}

// buildReportPage renders the standalone report view served at /report/{token}.
func buildReportPage(result assessment.AssessmentResult, token string) (string, error) {
	contentHTML, err := renderReportHTML(result.ReportMarkdown)
	if err != nil {
		return "", err
	}

	var navHTML strings.Builder
	for _, entry := range sectionNav(result.ReportMarkdown) {
		fmt.Fprintf(&navHTML, `<a href="#%s">%s</a>`, entry.ID, html.EscapeString(entry.Label))
	}

	var badges strings.Builder
	fmt.Fprintf(&badges, `<span class="report-badge">EU AI Act: %s</span>`, html.EscapeString(result.EUAIActClassification))
	for _, dim := range result.MostConstraining {
		fmt.Fprintf(&badges, `<span class="report-badge">Constraint: %s</span>`, html.EscapeString(dim))
	}

	page := "<!doctype html><html><head><meta charset='utf-8'><title>Solution Assessment Report</title>" +
		`<link rel="stylesheet" href="/style.css"></head><body>` +
		`<div class="report-wrap"><nav class="report-nav">` + navHTML.String() + `</nav>` +
		`<div class="report-tools"><div class="report-badges">` + badges.String() + `</div>` +
		fmt.Sprintf(`<a class="report-download" href="/report-pdf/%s">Download PDF</a></div>`, html.EscapeString(token)) +
		`<section class="report-viewer"><div class="report-html">` + contentHTML + `</div></section></div>` +
		"</body></html>"
	return page, nil
}
