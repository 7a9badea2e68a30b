package jira

import (
	"encoding/json"
	"testing"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"null", `null`, ""},
		{"empty", ``, ""},
		{"v2 string", `"  plain body  "`, "plain body"},
		{
			name: "paragraphs",
			raw: `{"type":"doc","version":1,"content":[
				{"type":"paragraph","content":[{"type":"text","text":"First"}]},
				{"type":"paragraph","content":[{"type":"text","text":"Second"}]}]}`,
			want: "First\nSecond",
		},
		{
			name: "hard break",
			raw: `{"type":"doc","content":[{"type":"paragraph","content":[
				{"type":"text","text":"a"},{"type":"hardBreak"},{"type":"text","text":"b"}]}]}`,
			want: "a\nb",
		},
		{
			name: "bullet list",
			raw: `{"type":"doc","content":[{"type":"bulletList","content":[
				{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"one"}]}]},
				{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"two"}]}]}]}]}`,
			want: "- one\n- two",
		},
		{
			name: "mention and card",
			raw: `{"type":"doc","content":[{"type":"paragraph","content":[
				{"type":"mention","attrs":{"text":"@ada"}},{"type":"text","text":" see "},
				{"type":"inlineCard","attrs":{"url":"https://example.com"}}]}]}`,
			want: "@ada see https://example.com",
		},
		{"garbage", `{"type":`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(json.RawMessage(tt.raw)); got != tt.want {
				t.Errorf("PlainText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommentDocument(t *testing.T) {
	t.Run("paragraph with hard break", func(t *testing.T) {
		doc := CommentDocument("line one\nline two")
		if doc.Version != 1 || doc.Type != ADFNodeDoc {
			t.Fatalf("unexpected header: %+v", doc)
		}
		if len(doc.Content) != 1 {
			t.Fatalf("len(Content) = %d, want 1", len(doc.Content))
		}
		para := doc.Content[0]
		if para.Type != ADFNodeParagraph || len(para.Content) != 3 {
			t.Fatalf("paragraph = %+v", para)
		}
		if para.Content[1].Type != ADFNodeHardBreak {
			t.Errorf("middle node = %s, want hardBreak", para.Content[1].Type)
		}
	})

	t.Run("blank line separates paragraphs", func(t *testing.T) {
		doc := CommentDocument("one\n\ntwo")
		if len(doc.Content) != 2 {
			t.Errorf("len(Content) = %d, want 2", len(doc.Content))
		}
	})

	t.Run("bullets and code", func(t *testing.T) {
		doc := CommentDocument("Done:\n- tests\n- docs\n```go\nfmt.Println()\n```")
		if len(doc.Content) != 3 {
			t.Fatalf("len(Content) = %d, want 3", len(doc.Content))
		}
		if doc.Content[1].Type != ADFNodeBulletList || len(doc.Content[1].Content) != 2 {
			t.Errorf("list = %+v", doc.Content[1])
		}
		code := doc.Content[2]
		if code.Type != ADFNodeCodeBlock || code.Attrs["language"] != "go" {
			t.Errorf("code block = %+v", code)
		}
		if code.Content[0].Text != "fmt.Println()" {
			t.Errorf("code text = %q", code.Content[0].Text)
		}
	})

	t.Run("round trips through PlainText", func(t *testing.T) {
		data, err := json.Marshal(CommentDocument("hello\n\n- a\n- b"))
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if got := PlainText(data); got != "hello\n- a\n- b" {
			t.Errorf("PlainText() = %q", got)
		}
	})
}
