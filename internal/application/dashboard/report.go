package dashboard

import (
	"bytes"
	"fmt"
	"time"

	"github.com/bryanwahyu/supplychain-insight/internal/infra/ai/prompt"
)

// Report renders a as a standalone markdown document for the archive.
func Report(a *Analysis) []byte {
	var b bytes.Buffer

	scope := "All vendors"
	if a.Vendor != "" {
		scope = a.Vendor
	}
	fmt.Fprintf(&b, "# %s\n\n", a.Category)
	fmt.Fprintf(&b, "- Vendor: %s\n", scope)
	fmt.Fprintf(&b, "- Model: %s\n", a.Model)
	fmt.Fprintf(&b, "- Generated: %s\n\n", a.Entry.CreatedAt.UTC().Format(time.RFC3339))

	b.WriteString("| Metric | Value |\n|---|---|\n")
	for _, t := range a.Tiles {
		fmt.Fprintf(&b, "| %s | %s |\n", t.Label, t.Display)
	}

	if lines := prompt.LeaderboardLines(a.Leaderboard); len(lines) > 0 {
		b.WriteString("\n## Top vendors\n\n")
		for _, l := range lines {
			fmt.Fprintf(&b, "- %s\n", l)
		}
	}

	b.WriteString("\n## Analysis\n\n")
	b.WriteString(a.Narrative)
	b.WriteString("\n")
	return b.Bytes()
}
