package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// Renderer is the boundary to the visualization layer: it consumes computed
// metrics and nothing else.
type Renderer interface {
	Render(w io.Writer, m Metrics) error
}

// TextRenderer renders a plain-text summary with per-label accuracy bars and
// the guessed-label distribution.
type TextRenderer struct {
	// ShowDistribution includes the per-label guess counts.
	ShowDistribution bool
}

const barWidth = 30

func (r TextRenderer) Render(w io.Writer, m Metrics) error {
	header := color.New(color.Bold)
	roleColor := map[Role]*color.Color{
		RoleMonitor:  color.New(color.FgBlue),
		RoleReceiver: color.New(color.FgYellow),
	}

	header.Fprintf(w, "Trials: %d (evaluated %d, failed %d)\n\n", m.Trials, m.Evaluated, m.Failed)

	for _, role := range Roles {
		c := m.Overall[role]
		roleColor[role].Fprintf(w, "%-8s", role)
		fmt.Fprintf(w, " overall: %3d/%-3d  %.3f\n", c.Correct, c.Total, c.Rate())
	}
	fmt.Fprintln(w)

	for _, label := range m.Labels() {
		fmt.Fprintf(w, "%-10s", label)
		for _, role := range Roles {
			c := m.PerLabel[role][label]
			roleColor[role].Fprintf(w, "  %s %.2f", bar(c.Rate()), c.Rate())
		}
		fmt.Fprintln(w)
	}

	if r.ShowDistribution {
		fmt.Fprintln(w)
		header.Fprintln(w, "Guess distribution (hidden -> guessed: count)")
		for _, label := range sortedKeys(m.Distribution) {
			guesses := m.Distribution[label]
			parts := make([]string, 0, len(guesses))
			for _, guess := range sortedKeys(guesses) {
				parts = append(parts, fmt.Sprintf("%s: %d", guess, guesses[guess]))
			}
			fmt.Fprintf(w, "%-10s %s\n", label, strings.Join(parts, ", "))
		}
	}

	return nil
}

func bar(rate float64) string {
	filled := int(rate * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
