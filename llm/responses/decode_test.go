package responses

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestIsDoneFrame(t *testing.T) {
	require.True(t, IsDoneFrame([]byte("[DONE]")))
	require.True(t, IsDoneFrame([]byte(" [DONE]\n")))
	require.False(t, IsDoneFrame([]byte(`{"type":"response.completed"}`)))
	require.False(t, IsDoneFrame([]byte("")))
}

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Event
	}{
		{
			name: "response.created",
			data: `{"type":"response.created","sequence_number":0,"response":{"id":"resp_123","object":"response","status":"in_progress"}}`,
			want: Created{ResponseID: "resp_123", Status: "in_progress"},
		},
		{
			name: "response.in_progress",
			data: `{"type":"response.in_progress","response":{"id":"resp_123","status":"in_progress"}}`,
			want: InProgress{},
		},
		{
			name: "response.queued",
			data: `{"type":"response.queued","response":{"id":"resp_123","status":"queued"}}`,
			want: Queued{},
		},
		{
			name: "response.incomplete",
			data: `{"type":"response.incomplete","response":{"id":"resp_123","status":"incomplete"}}`,
			want: Incomplete{},
		},
		{
			name: "output_text.delta",
			data: `{"type":"response.output_text.delta","item_id":"msg_1","output_index":0,"content_index":0,"delta":"Hel"}`,
			want: Delta{ItemID: "msg_1", Text: "Hel"},
		},
		{
			name: "output_text.delta with indices",
			data: `{"type":"response.output_text.delta","item_id":"msg_1","output_index":2,"content_index":1,"delta":"lo"}`,
			want: Delta{ItemID: "msg_1", OutputIndex: 2, ContentIndex: 1, Text: "lo"},
		},
		{
			name: "output_text.done",
			data: `{"type":"response.output_text.done","item_id":"msg_1","output_index":0,"content_index":0,"text":"Hello"}`,
			want: TextDone{ItemID: "msg_1", Text: "Hello"},
		},
		{
			name: "output_text.done with empty text",
			data: `{"type":"response.output_text.done","item_id":"msg_1","text":""}`,
			want: TextDone{ItemID: "msg_1", Text: ""},
		},
		{
			name: "content_part.done with text",
			data: `{"type":"response.content_part.done","item_id":"msg_1","content_index":0,"part":{"type":"output_text","text":"Hello"}}`,
			want: ContentPartDone{ItemID: "msg_1", Text: lo.ToPtr("Hello")},
		},
		{
			name: "content_part.done without text",
			data: `{"type":"response.content_part.done","item_id":"msg_1","content_index":0,"part":{"type":"refusal"}}`,
			want: ContentPartDone{ItemID: "msg_1"},
		},
		{
			name: "response.completed with output_text",
			data: `{"type":"response.completed","response":{"id":"resp_123","status":"completed","output_text":"Hello"}}`,
			want: Completed{ResponseID: "resp_123", OutputText: lo.ToPtr("Hello")},
		},
		{
			name: "response.completed without output_text",
			data: `{"type":"response.completed","response":{"id":"resp_123","status":"completed"}}`,
			want: Completed{ResponseID: "resp_123"},
		},
		{
			name: "response.failed",
			data: `{"type":"response.failed","response":{"id":"resp_123","status":"failed","error":{"code":"server_error","message":"boom"}}}`,
			want: Failed{Message: "boom"},
		},
		{
			name: "response.failed without error detail",
			data: `{"type":"response.failed","response":{"id":"resp_123","status":"failed"}}`,
			want: Failed{},
		},
		{
			name: "error event",
			data: `{"type":"error","code":"rate_limit_exceeded","message":"slow down","param":null}`,
			want: ErrorEvent{Code: "rate_limit_exceeded", Message: "slow down"},
		},
		{
			name: "unknown type decodes to ignored",
			data: `{"type":"response.mcp_call.completed"}`,
			want: Ignored{RawType: "response.mcp_call.completed"},
		},
		{
			name: "unknown output item type decodes to ignored",
			data: `{"type":"response.output_item.added","output_index":0,"item":{"id":"msg_1","type":"message"}}`,
			want: Ignored{RawType: "response.output_item.added"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeEvent([]byte(tt.data))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeEvent_Errors(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantReason DecodeErrorReason
		wantField  string
		wantPath   string
	}{
		{
			name:       "malformed JSON",
			data:       `{"type":"response.created",`,
			wantReason: MalformedPayload,
		},
		{
			name:       "not JSON at all",
			data:       `<html>bad gateway</html>`,
			wantReason: MalformedPayload,
		},
		{
			name:       "missing type",
			data:       `{"response":{"id":"resp_123"}}`,
			wantReason: MissingField,
			wantField:  "type",
			wantPath:   "type",
		},
		{
			name:       "created without response id",
			data:       `{"type":"response.created","response":{"status":"in_progress"}}`,
			wantReason: MissingField,
			wantField:  "id",
			wantPath:   "response.id",
		},
		{
			name:       "delta without delta field",
			data:       `{"type":"response.output_text.delta","item_id":"msg_1"}`,
			wantReason: MissingField,
			wantField:  "delta",
			wantPath:   "delta",
		},
		{
			name:       "delta without item_id",
			data:       `{"type":"response.output_text.delta","delta":"Hel"}`,
			wantReason: MissingField,
			wantField:  "item_id",
			wantPath:   "item_id",
		},
		{
			name:       "text done without text",
			data:       `{"type":"response.output_text.done","item_id":"msg_1"}`,
			wantReason: MissingField,
			wantField:  "text",
			wantPath:   "text",
		},
		{
			name:       "completed without response id",
			data:       `{"type":"response.completed","response":{"status":"completed"}}`,
			wantReason: MissingField,
			wantField:  "id",
			wantPath:   "response.id",
		},
		{
			name:       "error without message",
			data:       `{"type":"error","code":"server_error"}`,
			wantReason: MissingField,
			wantField:  "message",
			wantPath:   "message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeEvent([]byte(tt.data))
			require.Nil(t, got)

			var decodeErr *DecodeError

			require.ErrorAs(t, err, &decodeErr)
			require.Equal(t, tt.wantReason, decodeErr.Reason)
			require.Equal(t, tt.wantField, decodeErr.Field)
			require.Equal(t, tt.wantPath, decodeErr.Path)
		})
	}
}

func TestDecodeError_Recoverable(t *testing.T) {
	require.True(t, missingField("delta", "delta").Recoverable())
	require.False(t, (&DecodeError{Reason: MalformedPayload}).Recoverable())
}
