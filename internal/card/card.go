// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package card renders a ranked digest as a Feishu (Lark) interactive card.
// Rendering is deterministic: the same input yields byte-identical JSON.
package card

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// Feishu message and element tags.
const (
	MsgTypeInteractive = "interactive"
	TagPlainText       = "plain_text"
	TagLarkMD          = "lark_md"
	TagDiv             = "div"
)

// DefaultTopic labels the card header.
const DefaultTopic = "LLM / GPT"

// Payload is the webhook request body.
type Payload struct {
	MsgType string `json:"msg_type"`
	Card    Card   `json:"card"`

	// Papers is the number of per-paper blocks; not serialized.
	Papers int `json:"-"`
}

// Card is the interactive card object.
type Card struct {
	Config   Config    `json:"config"`
	Header   Header    `json:"header"`
	Elements []Element `json:"elements"`
}

// Config holds card display options.
type Config struct {
	WideScreenMode bool `json:"wide_screen_mode"`
}

// Header is the card title bar.
type Header struct {
	Title    Text   `json:"title"`
	Template string `json:"template,omitempty"`
}

// Text is a tagged text node.
type Text struct {
	Tag     string `json:"tag"`
	Content string `json:"content"`
}

// Element is one content block.
type Element struct {
	Tag  string `json:"tag"`
	Text *Text  `json:"text,omitempty"`
}

// Options tune the rendered text.
type Options struct {
	// Topic names the paper set in the header (default DefaultTopic).
	Topic string

	// ShowSignals lists the fired scoring signals next to each score.
	ShowSignals bool
}

// Render builds the card for ranked papers. total is the number of papers
// for the date before truncation and is what the header reports. Blocks
// follow the order of ranked exactly.
func Render(ranked []types.ScoredRecord, total int, dateLabel string, opts Options) Payload {
	topic := opts.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	if len(ranked) == 0 {
		return Payload{
			MsgType: MsgTypeInteractive,
			Card: Card{
				Config: Config{WideScreenMode: true},
				Header: Header{
					Title:    Text{Tag: TagPlainText, Content: fmt.Sprintf("📭 0 new %s papers for %s", topic, dateLabel)},
					Template: "grey",
				},
				Elements: []Element{markdown(fmt.Sprintf(
					"No papers matching the configured keywords were published on **%s** (UTC).", dateLabel))},
			},
		}
	}

	if total < len(ranked) {
		total = len(ranked)
	}

	elements := make([]Element, 0, len(ranked))
	for i, r := range ranked {
		elements = append(elements, markdown(paperBlock(i+1, r, opts)))
	}

	return Payload{
		MsgType: MsgTypeInteractive,
		Card: Card{
			Config: Config{WideScreenMode: true},
			Header: Header{
				Title:    Text{Tag: TagPlainText, Content: headerText(topic, dateLabel, total, len(ranked))},
				Template: "blue",
			},
			Elements: elements,
		},
		Papers: len(ranked),
	}
}

func headerText(topic, dateLabel string, total, shown int) string {
	return fmt.Sprintf("📚 %s papers for %s: %d found, top %d shown", topic, dateLabel, total, shown)
}

func paperBlock(rank int, r types.ScoredRecord, opts Options) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**#%d · score %d", rank, r.Score)
	if opts.ShowSignals && len(r.Signals) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(r.Signals, ", "))
	}
	b.WriteString("**\n")

	fmt.Fprintf(&b, "**Title:** %s\n", r.Title)
	fmt.Fprintf(&b, "**Authors:** %s\n", authorList(r.Authors))
	fmt.Fprintf(&b, "**Comment:** %s\n", r.Comment)
	fmt.Fprintf(&b, "**Summary:** %s\n", r.SummaryShort)
	if r.SummaryShort != r.Summary {
		fmt.Fprintf(&b, "<collapse>\n%s\n</collapse>\n", r.Summary)
	}
	fmt.Fprintf(&b, "[🔗 View paper](%s)", r.Link)
	return b.String()
}

func authorList(authors []string) string {
	if len(authors) == 0 {
		return "Unknown"
	}
	return strings.Join(authors, ", ")
}

func markdown(content string) Element {
	return Element{Tag: TagDiv, Text: &Text{Tag: TagLarkMD, Content: content}}
}

// JSON encodes p without HTML escaping. The output is stable for equal payloads.
func (p Payload) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encoding card: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// HeaderText returns the card title.
func (p Payload) HeaderText() string {
	return p.Card.Header.Title.Content
}
