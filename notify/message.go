package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/edgedelta/log-error-notifier/console"
)

const (
	HeadText  = "Errors reported in log"
	HeadColor = "#eb0000"

	lineTypeMessage = "message"
)

// Message is the full format payload of a Zoom incoming webhook.
type Message struct {
	Head Head   `json:"head"`
	Body []Line `json:"body"`
}

type Head struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

type Style struct {
	Bold  bool   `json:"bold"`
	Color string `json:"color"`
}

type Line struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

// NewMessage composes the error notification for one log group. tags may be
// empty, in which case no tag line is added.
func NewMessage(links console.Links, logGroup, summary string, tags map[string]string) Message {
	body := []Line{
		{Type: lineTypeMessage, Text: "Log Insights", Link: links.Search},
		{Type: lineTypeMessage, Text: "Log Group", Link: links.Source},
		{Type: lineTypeMessage, Text: logGroup},
		{Type: lineTypeMessage, Text: summary},
	}
	if len(tags) > 0 {
		body = append(body, Line{Type: lineTypeMessage, Text: "Tags: " + formatTags(tags)})
	}
	return Message{
		Head: Head{
			Text:  HeadText,
			Style: Style{Bold: true, Color: HeadColor},
		},
		Body: body,
	}
}

func formatTags(tags map[string]string) string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, tags[k]))
	}
	return strings.Join(pairs, ", ")
}
