package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type humanStyles struct {
	name     lipgloss.Style
	fail     lipgloss.Style
	warn     lipgloss.Style
	hint     lipgloss.Style
	criteria lipgloss.Style
}

func newHumanStyles(color bool) humanStyles {
	if !color {
		return humanStyles{}
	}
	return humanStyles{
		name:     lipgloss.NewStyle().Bold(true),
		fail:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		warn:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		hint:     lipgloss.NewStyle().Faint(true),
		criteria: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// StdoutIsTerminal reports whether stdout is a TTY, which decides
// whether the human report is styled.
func StdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Human renders the failure listing and unused-exemption warnings.
// A fully passing run with nothing to warn about renders as empty, so a
// quiet check stays quiet in scripts and CI logs.
func (r *Report) Human(color bool) string {
	st := newHumanStyles(color)
	var b strings.Builder

	for _, dep := range r.Dependencies {
		if dep.Status != "failed" {
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", st.name.Render(dep.Name), dep.Version)
		for _, f := range dep.Fails {
			fmt.Fprintf(&b, "  %s %s (%s)\n",
				st.fail.Render("missing"), st.criteria.Render(f.Needed), f.Reason)
			if f.PrevVersion != nil {
				fmt.Fprintf(&b, "  %s\n", st.hint.Render(fmt.Sprintf(
					"nearest audited version: %s, consider: vancouver audit %s %s --base %s --criteria %s",
					*f.PrevVersion, dep.Name, dep.Version, *f.PrevVersion, f.Needed)))
			}
		}
	}

	if len(r.UnusedExempts) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		for _, u := range r.UnusedExempts {
			fmt.Fprintf(&b, "%s exemption for %s %s (%s) was never needed\n",
				st.warn.Render("unused:"), u.Name, u.Version, u.Criteria)
		}
	}

	if r.TotalFailed > 0 {
		fmt.Fprintf(&b, "\n%d of %d dependencies failed\n", r.TotalFailed, r.Total)
	}

	return b.String()
}
