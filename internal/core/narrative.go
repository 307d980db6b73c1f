package core

import (
	"fmt"
	"strings"

	"github.com/agenthands/catena/internal/store"
)

// FormatNarrative renders a root-first causal chain as prose. The output is
// purely structural: identical chains always produce identical text.
func FormatNarrative(chain []*store.Event) string {
	if len(chain) == 0 {
		return "No causal chain found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Initially, %s.", chain[0].Text)
	if len(chain) == 1 {
		return b.String()
	}

	clauses := make([]string, 0, len(chain)-1)
	for i, ev := range chain[1:] {
		suffix := ""
		if ev.RelationshipText != "" {
			suffix = fmt.Sprintf(" (%s)", ev.RelationshipText)
		}
		if i == 0 {
			clauses = append(clauses, fmt.Sprintf("This led to %s%s", ev.Text, suffix))
		} else {
			clauses = append(clauses, fmt.Sprintf("which in turn caused %s%s", ev.Text, suffix))
		}
	}

	b.WriteString(" ")
	b.WriteString(strings.Join(clauses, ", "))
	b.WriteString(".")
	return b.String()
}
