package ncsapi

import (
	"strings"
	"testing"
)

var allHeadings = []string{
	"Title",
	"Abstract",
	"Introduction",
	"Methodology",
	"Expected Results",
	"Timeline",
	"Budget",
	"References",
}

func TestRenderMarkdownEmptyFields(t *testing.T) {
	doc := RenderMarkdown(ProposalFields{})
	pos := -1
	for _, heading := range allHeadings {
		idx := strings.Index(doc, "## "+heading+"\n")
		if idx == -1 {
			t.Fatalf("heading %q missing from document", heading)
		}
		if idx <= pos {
			t.Errorf("heading %q out of order", heading)
		}
		pos = idx
	}
}

func TestRenderMarkdownIdempotent(t *testing.T) {
	fields := ProposalFields{
		Title:       "Soil microbiome survey",
		Methodology: "16S rRNA sequencing across 40 plots.",
		Budget:      "12000 EUR",
	}
	first := RenderMarkdown(fields)
	for i := 0; i < 5; i++ {
		if got := RenderMarkdown(fields); got != first {
			t.Fatalf("render %d differs from first render", i)
		}
	}
	if !strings.Contains(first, "## Methodology\n\n16S rRNA sequencing across 40 plots.\n") {
		t.Error("field body not placed under its heading")
	}
}

func TestRenderHTML(t *testing.T) {
	fields := ProposalFields{Title: "A <b>bold</b> & spicy title"}
	doc := RenderHTML(fields)
	if !strings.Contains(doc, "A &lt;b&gt;bold&lt;/b&gt; &amp; spicy title") {
		t.Error("field body not escaped")
	}
	for _, heading := range allHeadings {
		if !strings.Contains(doc, "<h2>"+heading+"</h2>") {
			t.Errorf("heading %q missing", heading)
		}
	}
	if RenderHTML(fields) != doc {
		t.Error("render is not deterministic")
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name         string
		lines        int
		linesPerPage int
		wantPages    int
	}{
		{"single short page", 3, 10, 1},
		{"exact page boundary", 20, 10, 2},
		{"one line spills over", 21, 10, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			document := strings.TrimSuffix(strings.Repeat("line\n", tt.lines), "\n")
			pages := Paginate(document, tt.linesPerPage, 80)
			if len(pages) != tt.wantPages {
				t.Fatalf("Paginate produced %d pages, want %d", len(pages), tt.wantPages)
			}
			total := 0
			for i, page := range pages {
				if page.Number != i+1 {
					t.Errorf("page %d numbered %d", i, page.Number)
				}
				if len(page.Lines) > tt.linesPerPage {
					t.Errorf("page %d has %d lines, max %d", i, len(page.Lines), tt.linesPerPage)
				}
				total += len(page.Lines)
			}
			if total != tt.lines {
				t.Errorf("pages hold %d lines, want %d", total, tt.lines)
			}
		})
	}
}

func TestPaginateWrapsLongLines(t *testing.T) {
	document := strings.Repeat("word ", 40) // 200 chars
	pages := Paginate(document, 48, 20)
	for _, page := range pages {
		for _, line := range page.Lines {
			if len(line) > 20 {
				t.Fatalf("line %q exceeds page width", line)
			}
		}
	}
}

func TestProposalFilename(t *testing.T) {
	tests := []struct {
		title string
		ext   string
		want  string
	}{
		{"Soil Microbiome Survey", "html", "soil-microbiome-survey.html"},
		{"", "html", "proposal.html"},
		{"   ", "pages.json", "proposal.pages.json"},
		{"CRISPR/Cas9 -- edge  cases!", "html", "crispr-cas9-edge-cases.html"},
	}
	for _, tt := range tests {
		got := ProposalFilename(ProposalFields{Title: tt.title}, tt.ext)
		if got != tt.want {
			t.Errorf("ProposalFilename(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
