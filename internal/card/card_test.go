// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package card

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-digest/pkg/types"
)

func paper(i, score int) types.ScoredRecord {
	summary := fmt.Sprintf("Full abstract of paper %d.", i)
	return types.ScoredRecord{
		PaperRecord: types.PaperRecord{
			Title:        fmt.Sprintf("Paper %d", i),
			Authors:      []string{"Ada Lovelace", "Alan Turing"},
			FirstAuthor:  "Ada Lovelace",
			Comment:      "Accepted to ACL",
			HasComment:   true,
			Summary:      summary,
			SummaryShort: summary,
			Link:         fmt.Sprintf("http://arxiv.org/abs/2507.%05d", i),
		},
		Score:   score,
		Signals: []string{"accepted", "venue"},
	}
}

func TestRenderEmpty(t *testing.T) {
	p := Render(nil, 0, "2025-07-14", Options{})

	assert.Equal(t, MsgTypeInteractive, p.MsgType)
	assert.Zero(t, p.Papers)
	assert.Contains(t, p.HeaderText(), "0 new")
	assert.Contains(t, p.HeaderText(), "2025-07-14")
	require.Len(t, p.Card.Elements, 1, "single informational block")
	assert.Contains(t, p.Card.Elements[0].Text.Content, "No papers")
	assert.NotContains(t, p.Card.Elements[0].Text.Content, "#1")
}

func TestRenderPapers(t *testing.T) {
	ranked := []types.ScoredRecord{paper(1, 5), paper(2, 3), paper(3, 0)}
	p := Render(ranked, 3, "2025-07-14", Options{ShowSignals: true})

	assert.Equal(t, 3, p.Papers)
	require.Len(t, p.Card.Elements, 3)
	for i, el := range p.Card.Elements {
		assert.Equal(t, TagDiv, el.Tag)
		require.NotNil(t, el.Text)
		assert.Equal(t, TagLarkMD, el.Text.Tag)

		c := el.Text.Content
		assert.True(t, strings.HasPrefix(c, fmt.Sprintf("**#%d · score", i+1)), c)
		assert.Contains(t, c, fmt.Sprintf("Paper %d", i+1))
		assert.Contains(t, c, "Ada Lovelace, Alan Turing")
		assert.Contains(t, c, "Accepted to ACL")
		assert.Contains(t, c, fmt.Sprintf("(http://arxiv.org/abs/2507.%05d)", i+1))
	}
	assert.Contains(t, p.Card.Elements[0].Text.Content, "(accepted, venue)")
}

func TestRenderHeaderReportsTotal(t *testing.T) {
	var ranked []types.ScoredRecord
	for i := 1; i <= 10; i++ {
		ranked = append(ranked, paper(i, 1))
	}
	p := Render(ranked, 42, "2025-07-14", Options{Topic: "Agents"})

	assert.Len(t, p.Card.Elements, 10)
	assert.Contains(t, p.HeaderText(), "42 found")
	assert.Contains(t, p.HeaderText(), "top 10 shown")
	assert.Contains(t, p.HeaderText(), "Agents")
}

func TestRenderKeepsOrder(t *testing.T) {
	ranked := []types.ScoredRecord{paper(7, 0), paper(3, 9), paper(5, 4)}
	p := Render(ranked, 3, "2025-07-14", Options{})

	for i, want := range []string{"Paper 7", "Paper 3", "Paper 5"} {
		assert.Contains(t, p.Card.Elements[i].Text.Content, want)
	}
}

func TestRenderSummaryIsSupplementary(t *testing.T) {
	r := paper(1, 0)
	r.Summary = strings.Repeat("x", 400)
	r.SummaryShort = strings.Repeat("x", 300) + "..."

	c := Render([]types.ScoredRecord{r}, 1, "2025-07-14", Options{}).Card.Elements[0].Text.Content
	summaryLine := fmt.Sprintf("**Summary:** %s\n", r.SummaryShort)
	assert.Contains(t, c, summaryLine)
	assert.Contains(t, c, "<collapse>\n"+r.Summary+"\n</collapse>")
	assert.Less(t, strings.Index(c, summaryLine), strings.Index(c, "<collapse>"))

	short := paper(2, 0)
	c = Render([]types.ScoredRecord{short}, 1, "2025-07-14", Options{}).Card.Elements[0].Text.Content
	assert.NotContains(t, c, "<collapse>", "no collapsed copy when nothing was cut")
}

func TestRenderNoAuthors(t *testing.T) {
	r := paper(1, 0)
	r.Authors = nil
	c := Render([]types.ScoredRecord{r}, 1, "2025-07-14", Options{}).Card.Elements[0].Text.Content
	assert.Contains(t, c, "**Authors:** Unknown")
}

func TestPayloadJSON(t *testing.T) {
	r := paper(1, 2)
	r.Summary = strings.Repeat("y", 320)
	r.SummaryShort = strings.Repeat("y", 300) + "..."
	p := Render([]types.ScoredRecord{r}, 1, "2025-07-14", Options{})
	data, err := p.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "interactive", decoded["msg_type"])

	c := decoded["card"].(map[string]any)
	header := c["header"].(map[string]any)["title"].(map[string]any)
	assert.Equal(t, "plain_text", header["tag"])
	assert.Len(t, c["elements"], 1)
	assert.NotContains(t, string(data), `"Papers"`, "count is not serialized")
	assert.Contains(t, string(data), "<collapse>")
	assert.NotContains(t, string(data), `\u003c`, "HTML is not escaped")
}

func TestPayloadJSONDeterministic(t *testing.T) {
	ranked := []types.ScoredRecord{paper(1, 5), paper(2, 3)}
	first, err := Render(ranked, 2, "2025-07-14", Options{}).JSON()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Render(ranked, 2, "2025-07-14", Options{}).JSON()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
