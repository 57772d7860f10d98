package content

import (
	"strings"

	"github.com/emberlink/chatstream/llm"
)

const fence = "```"

// Parse turns one full text snapshot into ordered segments. Pure and
// restartable: callers always pass the complete current text, and the
// parser holds no state between calls.
//
// Ordering: an Attachments segment (if any) comes first, a GeneratedImages
// segment (if any) comes last, and text/code segments alternate in document
// order between them. Empty text contributes no segments.
func Parse(text string, attachments []llm.AttachmentRef, generatedImages [][]byte, isStreaming bool) []Segment {
	var segments []Segment

	if len(attachments) > 0 {
		segments = append(segments, Attachments{Refs: attachments})
	}

	segments = append(segments, parseText(text, isStreaming)...)

	if len(generatedImages) > 0 {
		segments = append(segments, GeneratedImages{Images: generatedImages})
	}

	return segments
}

func parseText(text string, isStreaming bool) []Segment {
	if text == "" {
		return nil
	}

	if !strings.Contains(text, fence) {
		if isStreaming {
			return []Segment{StreamingText{Text: text}}
		}

		return []Segment{Text{Text: text}}
	}

	var segments []Segment

	cursor := 0
	for {
		idx := strings.Index(text[cursor:], fence)
		if idx < 0 {
			if rest := text[cursor:]; rest != "" {
				segments = append(segments, Text{Text: rest})
			}

			break
		}

		if prefix := text[cursor : cursor+idx]; prefix != "" {
			segments = append(segments, Text{Text: prefix})
		}

		fenceStart := cursor + idx
		langStart := fenceStart + len(fence)

		// The language token runs to the end of the fence line.
		newline := strings.IndexByte(text[langStart:], '\n')
		if newline < 0 {
			// The opening fence line itself is still incomplete.
			segments = append(segments, openFenceSegment(text[fenceStart:], text[langStart:], isStreaming))
			break
		}

		language := strings.TrimSpace(text[langStart : langStart+newline])
		bodyStart := langStart + newline + 1

		closeIdx := strings.Index(text[bodyStart:], fence)
		if closeIdx < 0 {
			segments = append(segments, openFenceSegment(text[fenceStart:], language, isStreaming))
			break
		}

		body := strings.TrimSuffix(text[bodyStart:bodyStart+closeIdx], "\n")
		segments = append(segments, Code{Code: body, Language: language})

		cursor = bodyStart + closeIdx + len(fence)
	}

	return segments
}

// openFenceSegment handles text ending inside an unterminated fence. While
// streaming this is expected mid-block state; on finalized content the raw
// text is kept as prose rather than dropped or guessed closed.
func openFenceSegment(raw, language string, isStreaming bool) Segment {
	if isStreaming {
		return PartialCode{Raw: raw, Language: strings.TrimSpace(language)}
	}

	return Text{Text: raw}
}
