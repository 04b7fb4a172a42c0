package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/floatchat/argo-explorer/services/api/db"
)

// MaxHistory is how many trailing messages are forwarded to the model.
const MaxHistory = 20

// SystemInstruction frames every conversation.
const SystemInstruction = `You are floatCHAT, an assistant that helps people explore ARGO ocean float data.
Answer questions about ocean temperature, salinity, pressure, dissolved oxygen, nitrate and depth.
When a region summary is provided, ground numeric claims in it and say when the data does not cover the question.
Temperatures are in degrees Celsius, pressure in decibars, salinity in PSU, depth in metres.
Keep answers short and plain.`

// ErrNoMessages is returned when no message has any content.
var ErrNoMessages = errors.New("messages must contain at least one non-empty message")

// Message is one turn of the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Speaker maps the client role names onto the two transcript speakers.
func (m Message) Speaker() (string, error) {
	switch strings.ToLower(strings.TrimSpace(m.Role)) {
	case "user", "":
		return "User", nil
	case "assistant", "model", "bot":
		return "Assistant", nil
	default:
		return "", fmt.Errorf("unsupported role %q", m.Role)
	}
}

// Region is the optional map selection sent with a chat request.
type Region struct {
	Lat      float64
	Lon      float64
	RangeDeg float64
	Summary  *db.RegionSummary
}

// ComposePrompt renders the conversation, the current date and an optional
// region summary into a single prompt.
func ComposePrompt(now time.Time, messages []Message, region *Region) (string, error) {
	var turns []string
	for _, m := range messages {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		speaker, err := m.Speaker()
		if err != nil {
			return "", err
		}
		turns = append(turns, speaker+": "+content)
	}
	if len(turns) == 0 {
		return "", ErrNoMessages
	}
	if len(turns) > MaxHistory {
		turns = turns[len(turns)-MaxHistory:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Today is %s.\n\n", now.UTC().Format("2006-01-02"))
	if region != nil {
		writeRegion(&b, region)
		b.WriteString("\n")
	}
	b.WriteString("Conversation:\n")
	for _, t := range turns {
		b.WriteString(t)
		b.WriteString("\n")
	}
	b.WriteString("Assistant:")
	return b.String(), nil
}

func writeRegion(b *strings.Builder, r *Region) {
	fmt.Fprintf(b, "Selected region: latitude %s ± %s, longitude %s ± %s degrees.\n",
		formatFloat(r.Lat), formatFloat(r.RangeDeg), formatFloat(r.Lon), formatFloat(r.RangeDeg))

	s := r.Summary
	if s == nil {
		return
	}
	if s.Count == 0 {
		b.WriteString("No stored measurements fall inside this region.\n")
		return
	}

	fmt.Fprintf(b, "Stored measurements in region: %d\n", s.Count)
	if s.FirstTime != nil && s.LastTime != nil {
		fmt.Fprintf(b, "Time range: %s to %s\n", s.FirstTime.UTC().Format(time.RFC3339), s.LastTime.UTC().Format(time.RFC3339))
	}
	for _, q := range db.SummaryQuantities {
		st, ok := s.Stats[q]
		if !ok || st.Avg == nil {
			fmt.Fprintf(b, "- %s: no readings\n", q)
			continue
		}
		fmt.Fprintf(b, "- %s: min %s, avg %s, max %s\n", q, formatPtr(st.Min), formatPtr(st.Avg), formatPtr(st.Max))
	}
}

func formatPtr(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}
