package terminal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/supplychain-insight/internal/application/dashboard"
	"github.com/bryanwahyu/supplychain-insight/internal/domain/procurement"
)

func sample() (*dashboard.Dashboard, *dashboard.Analysis) {
	d := dashboard.Dashboard{
		Category: procurement.CategorySpend,
		Tiles: []procurement.Tile{
			{Column: "TOTAL_POS", Label: "Total POs", Value: 3, Display: "3"},
			{Column: "TOTAL_SPEND", Label: "Total Spend", Value: 2000, Display: "$2,000"},
		},
	}
	a := &dashboard.Analysis{
		Dashboard: d,
		Model:     "llama3.2-3b",
		Narrative: "Spend is concentrated in Acme Corp.",
		Leaderboard: &procurement.Leaderboard{Kind: procurement.RankBySpend, Entries: []procurement.VendorRanking{
			{Name: "Acme Corp", TotalSpend: 1500, SpendShare: 75},
		}},
	}
	return &d, a
}

func TestDisplayHuman(t *testing.T) {
	color.NoColor = true
	d, a := sample()

	var buf bytes.Buffer
	require.NoError(t, Display(&buf, FormatHuman, d, nil))
	out := buf.String()
	assert.Contains(t, out, "SPEND ANALYSIS · All Vendors")
	assert.Contains(t, out, "$2,000")
	assert.Contains(t, out, "--narrative")

	buf.Reset()
	require.NoError(t, Display(&buf, FormatHuman, nil, a))
	out = buf.String()
	assert.Contains(t, out, "Acme Corp: $1,500.00 (75.0%)")
	assert.Contains(t, out, "AI ANALYSIS (llama3.2-3b)")
	assert.Contains(t, out, "concentrated")
}

func TestDisplayJSON(t *testing.T) {
	_, a := sample()
	var buf bytes.Buffer
	require.NoError(t, Display(&buf, FormatJSON, nil, a))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Spend Analysis", got["category"])
	assert.Equal(t, "llama3.2-3b", got["model"])
}

func TestDisplayYAML(t *testing.T) {
	d, _ := sample()
	var buf bytes.Buffer
	require.NoError(t, Display(&buf, FormatYAML, d, nil))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Spend Analysis", got["category"])
}

func TestDisplayUnknownFormat(t *testing.T) {
	d, _ := sample()
	assert.Error(t, Display(&bytes.Buffer{}, "xml", d, nil))
}

func TestWrapText(t *testing.T) {
	out := wrapText(strings.Repeat("word ", 40), 30, "  ")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), 30)
		assert.True(t, strings.HasPrefix(line, "  "))
	}
}

func TestDisplayYAMLMatchesJSONShape(t *testing.T) {
	_, a := sample()

	var js, ys bytes.Buffer
	require.NoError(t, Display(&js, FormatJSON, nil, a))
	require.NoError(t, Display(&ys, FormatYAML, nil, a))

	var fromJSON, fromYAML map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &fromJSON))
	require.NoError(t, yaml.Unmarshal(ys.Bytes(), &fromYAML))

	assert.NotContains(t, fromYAML, "dashboard")
	assert.Contains(t, fromYAML, "tiles")
	assert.Equal(t, "Spend Analysis", fromYAML["category"])
	for key := range fromJSON {
		assert.Contains(t, fromYAML, key)
	}
}
