package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/emberlink/chatstream/llm"
	"github.com/emberlink/chatstream/llm/content"
)

var codeColor = color.New(color.FgCyan)

// renderer paints one assistant message incrementally. Each accumulated
// snapshot is parsed into segments and diffed against the previous
// rendition; the diff decides whether to append in place or repaint.
type renderer struct {
	out      io.Writer
	previous content.MessageContent
	lines    int
}

func newRenderer(out io.Writer) *renderer {
	return &renderer{out: out}
}

// Render draws the message for the given accumulated text.
func (r *renderer) Render(messageID, text string, streaming bool) {
	next := content.MessageContent{
		MessageID:   messageID,
		Role:        llm.RoleAssistant,
		Segments:    content.Parse(text, nil, nil, streaming),
		IsStreaming: streaming,
	}

	diff := content.Diff(r.previous, next)

	switch diff.ChangeType {
	case content.NoChange:
	case content.AppendToLastSegment:
		suffix, ok := r.appendedSuffix(next, diff.Index)
		if !ok {
			r.repaint(next)
			break
		}

		fmt.Fprint(r.out, suffix)
		r.lines += strings.Count(suffix, "\n")
	default:
		r.repaint(next)
	}

	r.previous = next
}

// Done finalizes the message and moves the cursor to a fresh line.
func (r *renderer) Done(messageID, text string) {
	r.Render(messageID, text, false)
	fmt.Fprintln(r.out)

	r.previous = content.MessageContent{}
	r.lines = 0
}

// appendedSuffix returns the newly appended output when the grown segment
// renders as a pure extension of its previous form. Styled segments do
// not, so those fall back to a repaint.
func (r *renderer) appendedSuffix(next content.MessageContent, index int) (string, bool) {
	if index >= len(r.previous.Segments) || index >= len(next.Segments) {
		return "", false
	}

	before := renderSegment(r.previous.Segments[index])
	after := renderSegment(next.Segments[index])

	if !strings.HasPrefix(after, before) {
		return "", false
	}

	return after[len(before):], true
}

func (r *renderer) repaint(next content.MessageContent) {
	if r.lines > 0 {
		fmt.Fprintf(r.out, "\x1b[%dA", r.lines)
	}

	fmt.Fprint(r.out, "\r\x1b[0J")

	rendered := renderMessage(next)
	fmt.Fprint(r.out, rendered)
	r.lines = strings.Count(rendered, "\n")
}

func renderMessage(message content.MessageContent) string {
	var sb strings.Builder
	for _, segment := range message.Segments {
		sb.WriteString(renderSegment(segment))
	}

	return sb.String()
}

func renderSegment(segment content.Segment) string {
	switch s := segment.(type) {
	case content.Text:
		return s.Text
	case content.StreamingText:
		return s.Text
	case content.Code:
		return codeColor.Sprintf("```%s\n%s\n```", s.Language, s.Code)
	case content.PartialCode:
		// Unstyled until the fence closes, so streamed code can append
		// without repainting.
		return s.Raw
	case content.Attachments:
		var sb strings.Builder
		for _, ref := range s.Refs {
			fmt.Fprintf(&sb, "[attachment] %s\n", ref.Name)
		}

		return sb.String()
	case content.GeneratedImages:
		var sb strings.Builder
		for _, image := range s.Images {
			fmt.Fprintf(&sb, "[image, %d bytes]\n", len(image))
		}

		return sb.String()
	default:
		return ""
	}
}
