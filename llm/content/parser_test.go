package content

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberlink/chatstream/llm"
)

func TestParse_PlainText(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		isStreaming bool
		want        []Segment
	}{
		{
			name: "finalized text without fences is a single text segment",
			text: "Hello, world.",
			want: []Segment{Text{Text: "Hello, world."}},
		},
		{
			name:        "streaming text without fences is a single streaming segment",
			text:        "Hello, wor",
			isStreaming: true,
			want:        []Segment{StreamingText{Text: "Hello, wor"}},
		},
		{
			name: "empty text yields no segments",
			text: "",
			want: nil,
		},
		{
			name:        "empty streaming text yields no segments",
			text:        "",
			isStreaming: true,
			want:        nil,
		},
		{
			name: "multiline text stays one segment",
			text: "line one\nline two\n",
			want: []Segment{Text{Text: "line one\nline two\n"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text, nil, nil, tt.isStreaming)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParse_CodeFences(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		isStreaming bool
		want        []Segment
	}{
		{
			name: "balanced fence with prefix and suffix",
			text: "Here's code:\n```swift\nlet x = 1\n```\nDone.",
			want: []Segment{
				Text{Text: "Here's code:\n"},
				Code{Code: "let x = 1", Language: "swift"},
				Text{Text: "\nDone."},
			},
		},
		{
			name: "fence at start omits the empty prefix",
			text: "```go\nfmt.Println(1)\n```\ntrailer",
			want: []Segment{
				Code{Code: "fmt.Println(1)", Language: "go"},
				Text{Text: "\ntrailer"},
			},
		},
		{
			name: "fence at end omits the empty suffix",
			text: "lead\n```go\nfmt.Println(1)\n```",
			want: []Segment{
				Text{Text: "lead\n"},
				Code{Code: "fmt.Println(1)", Language: "go"},
			},
		},
		{
			name: "fence without language",
			text: "```\nplain block\n```",
			want: []Segment{
				Code{Code: "plain block", Language: ""},
			},
		},
		{
			name: "multiple fences alternate text and code",
			text: "a\n```py\nx = 1\n```\nb\n```py\ny = 2\n```\nc",
			want: []Segment{
				Text{Text: "a\n"},
				Code{Code: "x = 1", Language: "py"},
				Text{Text: "\nb\n"},
				Code{Code: "y = 2", Language: "py"},
				Text{Text: "\nc"},
			},
		},
		{
			name: "multiline code body is preserved",
			text: "```go\nfunc main() {\n\tfmt.Println(1)\n}\n```",
			want: []Segment{
				Code{Code: "func main() {\n\tfmt.Println(1)\n}", Language: "go"},
			},
		},
		{
			name: "empty code body",
			text: "```go\n```",
			want: []Segment{
				Code{Code: "", Language: "go"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text, nil, nil, tt.isStreaming)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParse_OpenFences(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		isStreaming bool
		want        []Segment
	}{
		{
			name:        "streaming mid-language fence",
			text:        "```sw",
			isStreaming: true,
			want:        []Segment{PartialCode{Raw: "```sw", Language: "sw"}},
		},
		{
			name:        "streaming open fence with body",
			text:        "Here:\n```swift\nlet x",
			isStreaming: true,
			want: []Segment{
				Text{Text: "Here:\n"},
				PartialCode{Raw: "```swift\nlet x", Language: "swift"},
			},
		},
		{
			name:        "streaming bare fence",
			text:        "```",
			isStreaming: true,
			want:        []Segment{PartialCode{Raw: "```", Language: ""}},
		},
		{
			name:        "streaming open fence after a closed one",
			text:        "```go\nx\n```\n```py\ny",
			isStreaming: true,
			want: []Segment{
				Code{Code: "x", Language: "go"},
				Text{Text: "\n"},
				PartialCode{Raw: "```py\ny", Language: "py"},
			},
		},
		{
			name: "finalized unterminated fence stays raw text",
			text: "intro\n```swift\nlet x = 1",
			want: []Segment{
				Text{Text: "intro\n"},
				Text{Text: "```swift\nlet x = 1"},
			},
		},
		{
			name: "finalized mid-language fence stays raw text",
			text: "```sw",
			want: []Segment{Text{Text: "```sw"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text, nil, nil, tt.isStreaming)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParse_AttachmentsAndImages(t *testing.T) {
	attachments := []llm.AttachmentRef{
		{ID: "file_1", Name: "notes.pdf", MimeType: "application/pdf"},
	}
	images := [][]byte{[]byte("png-bytes")}

	t.Run("attachments come first", func(t *testing.T) {
		got := Parse("see attached", attachments, nil, false)

		require.Equal(t, []Segment{
			Attachments{Refs: attachments},
			Text{Text: "see attached"},
		}, got)
	})

	t.Run("generated images come last", func(t *testing.T) {
		got := Parse("here you go", nil, images, false)

		require.Equal(t, []Segment{
			Text{Text: "here you go"},
			GeneratedImages{Images: images},
		}, got)
	})

	t.Run("attachments first and images last around code", func(t *testing.T) {
		got := Parse("a\n```go\nx\n```", attachments, images, false)

		require.Equal(t, []Segment{
			Attachments{Refs: attachments},
			Text{Text: "a\n"},
			Code{Code: "x", Language: "go"},
			GeneratedImages{Images: images},
		}, got)
	})

	t.Run("attachments and images with empty text", func(t *testing.T) {
		got := Parse("", attachments, images, true)

		require.Equal(t, []Segment{
			Attachments{Refs: attachments},
			GeneratedImages{Images: images},
		}, got)
	})
}

// Re-parsing successive snapshots of the same stream must converge on the
// finalized parse, since callers always supply the full text.
func TestParse_Restartable(t *testing.T) {
	full := "Here's code:\n```swift\nlet x = 1\n```\nDone."

	var last []Segment
	for i := 0; i <= len(full); i++ {
		last = Parse(full[:i], nil, nil, true)
	}

	require.Equal(t, []Segment{
		Text{Text: "Here's code:\n"},
		Code{Code: "let x = 1", Language: "swift"},
		Text{Text: "\nDone."},
	}, last)

	require.Equal(t, Parse(full, nil, nil, false), last)
}
