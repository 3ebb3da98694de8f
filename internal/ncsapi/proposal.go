package ncsapi

import (
	"fmt"
	"strings"
)

// ProposalFields is the flat record collected by the proposal generator form.
// Every field is optional; absent fields render as empty bodies.
type ProposalFields struct {
	Title           string `json:"title"`
	Abstract        string `json:"abstract"`
	Introduction    string `json:"introduction"`
	Methodology     string `json:"methodology"`
	ExpectedResults string `json:"expected_results"`
	Timeline        string `json:"timeline"`
	Budget          string `json:"budget"`
	References      string `json:"references"`
}

type proposalSection struct {
	Heading string
	Body    func(ProposalFields) string
}

// The section order and heading texts are fixed. Rendering walks this table,
// which is what makes the output deterministic for a given input.
var proposalSections = []proposalSection{
	{"Title", func(f ProposalFields) string { return f.Title }},
	{"Abstract", func(f ProposalFields) string { return f.Abstract }},
	{"Introduction", func(f ProposalFields) string { return f.Introduction }},
	{"Methodology", func(f ProposalFields) string { return f.Methodology }},
	{"Expected Results", func(f ProposalFields) string { return f.ExpectedResults }},
	{"Timeline", func(f ProposalFields) string { return f.Timeline }},
	{"Budget", func(f ProposalFields) string { return f.Budget }},
	{"References", func(f ProposalFields) string { return f.References }},
}

// RenderMarkdown produces the structured text document: one heading per
// field in the fixed order, body = field value, possibly empty.
func RenderMarkdown(fields ProposalFields) string {
	var sb strings.Builder
	for _, section := range proposalSections {
		sb.WriteString("## ")
		sb.WriteString(section.Heading)
		sb.WriteString("\n\n")
		sb.WriteString(section.Body(fields))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// RenderHTML produces the minimal styled markup variant of the document.
func RenderHTML(fields ProposalFields) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString("<title>Research Proposal</title>\n")
	sb.WriteString("<style>body{font-family:serif;max-width:48em;margin:2em auto}h2{border-bottom:1px solid #ccc}</style>\n")
	sb.WriteString("</head>\n<body>\n")
	for _, section := range proposalSections {
		sb.WriteString("<h2>")
		sb.WriteString(htmlEscape(section.Heading))
		sb.WriteString("</h2>\n<p>")
		sb.WriteString(htmlEscape(section.Body(fields)))
		sb.WriteString("</p>\n")
	}
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

func htmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// Page is one fixed-height page of the paginated export.
type Page struct {
	Number int      `json:"number"`
	Lines  []string `json:"lines"`
}

// Paginate splits a rendered document across fixed-height pages sized to a
// standard page width. Long lines wrap at lineWidth before the page split.
func Paginate(document string, linesPerPage int, lineWidth int) []Page {
	if linesPerPage < 1 {
		linesPerPage = 1
	}
	var wrapped []string
	for _, line := range strings.Split(document, "\n") {
		wrapped = append(wrapped, wrapLine(line, lineWidth)...)
	}
	pages := []Page{}
	for i := 0; i < len(wrapped); i += linesPerPage {
		end := i + linesPerPage
		if end > len(wrapped) {
			end = len(wrapped)
		}
		pages = append(pages, Page{
			Number: len(pages) + 1,
			Lines:  wrapped[i:end],
		})
	}
	return pages
}

func wrapLine(line string, width int) []string {
	if width < 1 || len(line) <= width {
		return []string{line}
	}
	var out []string
	for len(line) > width {
		cut := width
		// Prefer breaking on a space inside the line
		if idx := strings.LastIndex(line[:width], " "); idx > 0 {
			cut = idx
		}
		out = append(out, strings.TrimRight(line[:cut], " "))
		line = strings.TrimLeft(line[cut:], " ")
	}
	return append(out, line)
}

// ProposalFilename builds the download name from the title field.
func ProposalFilename(fields ProposalFields, ext string) string {
	title := strings.TrimSpace(fields.Title)
	if title == "" {
		title = "proposal"
	}
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, title)
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "proposal"
	}
	return fmt.Sprintf("%s.%s", slug, ext)
}
