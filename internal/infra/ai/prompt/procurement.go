package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/supplychain-insight/internal/domain/procurement"
)

// SystemPrompt is sent ahead of the analysis prompt to chat-style providers.
func SystemPrompt() string {
	return `You are a senior supply chain analyst reviewing SAP purchase-order data.
Write a concise narrative in markdown: key findings first, then risks, then concrete recommendations.
Only use the figures given in the prompt; do not invent numbers.`
}

// Compose renders the analysis prompt for p. With a vendor the leaderboard is
// ignored and the context section reads N/A.
func Compose(p procurement.Profile, vendor string, m *procurement.MetricsResult, board *procurement.Leaderboard) string {
	var sb strings.Builder

	scope := "across vendors"
	if vendor != "" {
		scope = "for " + vendor
	}
	fmt.Fprintf(&sb, "Analyze %s %s.\n", p.Subject, scope)

	for _, metric := range p.Metrics {
		fmt.Fprintf(&sb, "- %s: %s\n", metric.PromptLabel, metric.PromptFormat.Apply(m.Value(metric.Column)))
	}

	fmt.Fprintf(&sb, "%s:\n", p.ContextHeading)
	lines := LeaderboardLines(board)
	if vendor != "" || len(lines) == 0 {
		sb.WriteString("N/A\n")
	} else {
		for _, l := range lines {
			sb.WriteString(l)
			sb.WriteString("\n")
		}
	}

	if p.Focus != "" {
		sb.WriteString("\n")
		sb.WriteString(p.Focus)
		sb.WriteString("\n")
	}
	return sb.String()
}

// LeaderboardLines formats one line per vendor according to the ranking kind.
func LeaderboardLines(board *procurement.Leaderboard) []string {
	if board == nil {
		return nil
	}
	lines := make([]string, 0, len(board.Entries))
	for _, e := range board.Entries {
		if board.Kind == procurement.RankByEfficiency {
			lines = append(lines, fmt.Sprintf("%s: %.1f%% efficiency, avg %.1f days (%s late out of %s total items)",
				e.Name, e.Efficiency, e.AvgProcessDays,
				procurement.FormatCount.Apply(e.LateItems),
				procurement.FormatCount.Apply(e.TotalItems)))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s (%.1f%%)",
			e.Name, procurement.FormatMoneyCents.Apply(e.TotalSpend), e.SpendShare))
	}
	return lines
}
