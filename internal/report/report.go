// Package report renders redaction statistics for people and for tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/ppiankov/phiscrub/internal/phi"
	"github.com/ppiankov/phiscrub/internal/scrub"
)

// Summary is the serialized form of one scrub run. It carries counts and
// offsets only, never matched text.
type Summary struct {
	ID          string          `json:"id,omitempty"`
	Source      string          `json:"source,omitempty"`
	Total       int             `json:"total"`
	Counts      map[string]int  `json:"counts"`
	Findings    []scrub.Finding `json:"findings,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// NewSummary builds a Summary from a pipeline result. Findings are only
// included when withFindings is set.
func NewSummary(source string, res *scrub.Result, withFindings bool) Summary {
	s := Summary{
		Source: source,
		Total:  res.Counts.Total(),
		Counts: make(map[string]int, len(res.Counts)),
	}
	for _, cc := range res.Counts.Sorted() {
		s.Counts[string(cc.Category)] = cc.Count
	}
	if withFindings {
		s.Findings = res.Findings
	}
	return s
}

// FormatJSON renders s as indented JSON.
func FormatJSON(s Summary) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	return string(data), nil
}

// FormatText renders s as a plain-text table in report order.
func FormatText(s Summary) string {
	return formatText(s, plainStyles())
}

// Write renders s to w as JSON or text. Text written to a terminal is
// styled.
func Write(w io.Writer, s Summary, asJSON bool) error {
	var out string
	if asJSON {
		var err error
		if out, err = FormatJSON(s); err != nil {
			return err
		}
	} else if isTerminal(w) {
		out = formatText(s, termStyles(w))
	} else {
		out = FormatText(s)
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

type styles struct {
	header lipgloss.Style
	label  lipgloss.Style
	count  lipgloss.Style
}

func plainStyles() styles {
	r := lipgloss.NewRenderer(io.Discard)
	return styles{header: r.NewStyle(), label: r.NewStyle(), count: r.NewStyle()}
}

func termStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header: r.NewStyle().Bold(true),
		label:  r.NewStyle().Foreground(lipgloss.Color("6")),
		count:  r.NewStyle().Bold(true),
	}
}

func formatText(s Summary, st styles) string {
	var b strings.Builder
	b.WriteString(st.header.Render(fmt.Sprintf("Redactions applied: %d", s.Total)))
	b.WriteString("\n")

	width := 0
	for _, c := range phi.All {
		if s.Counts[string(c)] > 0 && len(c) > width {
			width = len(c)
		}
	}
	for _, c := range phi.All {
		n := s.Counts[string(c)]
		if n == 0 {
			continue
		}
		label := fmt.Sprintf("%-*s", width, string(c))
		fmt.Fprintf(&b, "  %s : %s\n", st.label.Render(label), st.count.Render(fmt.Sprint(n)))
	}
	return b.String()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
