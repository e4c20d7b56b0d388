package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/redactyl/privaudit/internal/types"
)

// PassedMessage is printed to the output stream when nothing was found.
const PassedMessage = "Privacy audit passed."

// FailedHeader opens the problem report on the error stream.
const FailedHeader = "PRIVACY AUDIT FAILED:"

// PrintOptions controls styling of the human-readable reports.
type PrintOptions struct {
	NoColor bool
}

// PrintText writes the success line to out, or the bulleted problem list to
// errOut. Problems keep the order they were found in.
func PrintText(out, errOut io.Writer, problems []types.Problem, opts PrintOptions) {
	if len(problems) == 0 {
		fmt.Fprintln(out, PassedMessage)
		return
	}
	st := newStyles(errOut, opts.NoColor)
	fmt.Fprintln(errOut, st.header.Render(FailedHeader))
	fmt.Fprintln(errOut)
	for _, p := range problems {
		fmt.Fprintf(errOut, "%s %s\n", st.bullet.Render("-"), p.String())
	}
}

// PrintTable is PrintText with the problems laid out as a bordered table.
func PrintTable(out, errOut io.Writer, problems []types.Problem, opts PrintOptions) {
	if len(problems) == 0 {
		fmt.Fprintln(out, PassedMessage)
		return
	}
	st := newStyles(errOut, opts.NoColor)
	fmt.Fprintln(errOut, st.header.Render(FailedHeader))
	fmt.Fprintln(errOut)

	table := tablewriter.NewWriter(errOut)
	table.Header("KIND", "PATH", "MATCH")
	for _, p := range problems {
		detail := p.Match
		if p.Kind == types.KindReadError {
			detail = p.Detail
		}
		_ = table.Append([]string{string(p.Kind), p.Path, detail})
	}
	_ = table.Render()

	fmt.Fprintln(errOut)
	fmt.Fprintf(errOut, "Problems: %d%s\n", len(problems), countSummary(problems))
}

func countSummary(problems []types.Problem) string {
	counts := map[types.Kind]int{}
	for _, p := range problems {
		counts[p.Kind]++
	}
	s := ""
	for _, k := range types.Kinds() {
		if counts[k] == 0 {
			continue
		}
		if s == "" {
			s = " ("
		} else {
			s += ", "
		}
		s += fmt.Sprintf("%s: %d", k, counts[k])
	}
	if s != "" {
		s += ")"
	}
	return s
}

type styles struct {
	header lipgloss.Style
	bullet lipgloss.Style
}

// newStyles binds styles to w so color is only emitted when w supports it.
func newStyles(w io.Writer, noColor bool) styles {
	if noColor {
		return styles{header: lipgloss.NewStyle(), bullet: lipgloss.NewStyle()}
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		bullet: r.NewStyle().Foreground(lipgloss.Color("11")),
	}
}
