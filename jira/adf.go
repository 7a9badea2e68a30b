package jira

import (
	"encoding/json"
	"strings"
)

// ADFDocument represents an Atlassian Document Format document.
// This is used for rich text fields in Jira Cloud API v3.
type ADFDocument struct {
	Version int       `json:"version"` // Always 1
	Type    string    `json:"type"`    // Always "doc"
	Content []ADFNode `json:"content"`
}

// ADFNode represents a node in an ADF document.
type ADFNode struct {
	Type    string         `json:"type"`
	Content []ADFNode      `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// ADF node types
const (
	ADFNodeDoc        = "doc"
	ADFNodeParagraph  = "paragraph"
	ADFNodeText       = "text"
	ADFNodeHardBreak  = "hardBreak"
	ADFNodeHeading    = "heading"
	ADFNodeBulletList = "bulletList"
	ADFNodeListItem   = "listItem"
	ADFNodeCodeBlock  = "codeBlock"
	ADFNodeMention    = "mention"
	ADFNodeEmoji      = "emoji"
	ADFNodeInlineCard = "inlineCard"
)

// blockTypes end with a line break when they produced text.
var blockTypes = map[string]bool{
	ADFNodeParagraph: true,
	ADFNodeHeading:   true,
	ADFNodeListItem:  true,
	ADFNodeCodeBlock: true,
}

// PlainText renders a rich-text field as plain text. It accepts an ADF
// document (v3) or a plain JSON string (v2). Null or empty input yields "".
func PlainText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}

	var doc ADFNode
	if json.Unmarshal(raw, &doc) != nil {
		return ""
	}

	var sb strings.Builder
	writeText(&sb, &doc)
	return tidy(sb.String())
}

func writeText(sb *strings.Builder, node *ADFNode) {
	switch node.Type {
	case ADFNodeText:
		sb.WriteString(node.Text)
		return
	case ADFNodeHardBreak:
		sb.WriteString("\n")
		return
	case ADFNodeMention, ADFNodeEmoji:
		if text, ok := node.Attrs["text"].(string); ok {
			sb.WriteString(text)
		}
		return
	case ADFNodeInlineCard:
		if url, ok := node.Attrs["url"].(string); ok {
			sb.WriteString(url)
		}
		return
	}

	before := sb.Len()
	if node.Type == ADFNodeListItem {
		sb.WriteString("- ")
	}
	for i := range node.Content {
		writeText(sb, &node.Content[i])
	}
	if blockTypes[node.Type] && sb.Len() > before && !strings.HasSuffix(sb.String(), "\n") {
		sb.WriteString("\n")
	}
}

// tidy trims trailing whitespace per line and drops trailing empty lines.
func tidy(text string) string {
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimRight(ln, " \t")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// CommentDocument converts plain comment text into an ADF document.
// Blank lines separate paragraphs, "- " lines become bullet lists, fenced
// blocks become code blocks, and other line breaks become hard breaks.
func CommentDocument(text string) *ADFDocument {
	doc := &ADFDocument{Version: 1, Type: ADFNodeDoc, Content: []ADFNode{}}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var para []string

	flush := func() {
		if len(para) == 0 {
			return
		}
		var content []ADFNode
		for i, ln := range para {
			if i > 0 {
				content = append(content, ADFNode{Type: ADFNodeHardBreak})
			}
			if ln != "" {
				content = append(content, ADFNode{Type: ADFNodeText, Text: ln})
			}
		}
		doc.Content = append(doc.Content, ADFNode{Type: ADFNodeParagraph, Content: content})
		para = nil
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		switch {
		case strings.TrimSpace(line) == "":
			flush()

		case strings.HasPrefix(line, "```"):
			flush()
			language := strings.TrimSpace(strings.TrimPrefix(line, "```"))
			var code []string
			for i++; i < len(lines) && !strings.HasPrefix(lines[i], "```"); i++ {
				code = append(code, lines[i])
			}
			block := ADFNode{
				Type:    ADFNodeCodeBlock,
				Content: []ADFNode{{Type: ADFNodeText, Text: strings.Join(code, "\n")}},
			}
			if language != "" {
				block.Attrs = map[string]any{"language": language}
			}
			doc.Content = append(doc.Content, block)

		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			flush()
			list := ADFNode{Type: ADFNodeBulletList}
			for ; i < len(lines) && (strings.HasPrefix(lines[i], "- ") || strings.HasPrefix(lines[i], "* ")); i++ {
				item := strings.TrimSpace(lines[i][2:])
				list.Content = append(list.Content, ADFNode{
					Type: ADFNodeListItem,
					Content: []ADFNode{{
						Type:    ADFNodeParagraph,
						Content: []ADFNode{{Type: ADFNodeText, Text: item}},
					}},
				})
			}
			i--
			doc.Content = append(doc.Content, list)

		default:
			para = append(para, line)
		}
	}
	flush()

	return doc
}
