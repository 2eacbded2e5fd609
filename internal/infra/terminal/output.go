// Package terminal prints dashboards and analyses for the poctl command.
package terminal

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/supplychain-insight/internal/application/dashboard"
	"github.com/bryanwahyu/supplychain-insight/internal/domain/procurement"
	"github.com/bryanwahyu/supplychain-insight/internal/infra/ai/prompt"
)

const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Display writes the analysis when a is set, otherwise the bare dashboard.
func Display(w io.Writer, format string, d *dashboard.Dashboard, a *dashboard.Analysis) error {
	var v any = d
	if a != nil {
		v = a
		d = &a.Dashboard
	}
	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case FormatYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case FormatHuman, "":
		displayHuman(w, d, a)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (allowed: human, json, yaml)", format)
	}
}

func displayHuman(w io.Writer, d *dashboard.Dashboard, a *dashboard.Analysis) {
	cyan := color.New(color.FgCyan, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	scope := "All Vendors"
	if d.Vendor != "" {
		scope = d.Vendor
	}
	fmt.Fprintln(w)
	cyan.Fprintf(w, "📊 %s · %s\n\n", strings.ToUpper(string(d.Category)), scope)
	printTiles(w, d.Tiles)

	if a == nil {
		fmt.Fprintln(w, strings.Repeat("─", 80))
		fmt.Fprintf(w, "💡 %s\n", color.HiBlackString("Run with --narrative for an AI analysis"))
		return
	}

	if a.Leaderboard != nil && len(a.Leaderboard.Entries) > 0 {
		white.Fprintln(w, "🏆 TOP VENDORS:")
		for i, line := range prompt.LeaderboardLines(a.Leaderboard) {
			fmt.Fprintf(w, "   %d. %s\n", i+1, line)
		}
		fmt.Fprintln(w)
	}

	white.Fprintf(w, "🤖 AI ANALYSIS (%s):\n", a.Model)
	fmt.Fprintln(w, renderMarkdown(a.Narrative))

	if a.ReportURL != "" {
		fmt.Fprintf(w, "📄 Report: %s\n", color.CyanString(a.ReportURL))
	}
	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func printTiles(w io.Writer, tiles []procurement.Tile) {
	green := color.New(color.FgGreen, color.Bold)
	for _, t := range tiles {
		fmt.Fprintf(w, "   %-18s ", t.Label)
		green.Fprintln(w, t.Display)
	}
	fmt.Fprintln(w)
}

// renderMarkdown styles the narrative for the terminal, falling back to plain
// indented text when the renderer is unavailable.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err == nil {
		if out, err := r.Render(md); err == nil {
			return out
		}
	}
	return wrapText(md, 80, "   ")
}

func wrapText(text string, width int, indent string) string {
	var b strings.Builder
	for _, para := range strings.Split(text, "\n") {
		line := indent
		for _, word := range strings.Fields(para) {
			if len(line)+len(word)+1 > width && strings.TrimSpace(line) != "" {
				b.WriteString(strings.TrimRight(line, " "))
				b.WriteByte('\n')
				line = indent
			}
			line += word + " "
		}
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
