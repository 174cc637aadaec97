package compose

// Block is a single Slack Block Kit block. Only the shapes used by the
// webhook payloads are modeled.
type Block struct {
	Type     string       `json:"type"`
	Text     *TextObject  `json:"text,omitempty"`
	Elements []TextObject `json:"elements,omitempty"`
}

// TextObject is the text payload of a block.
type TextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// HeaderBlock renders a plain-text header.
func HeaderBlock(text string) Block {
	return Block{Type: "header", Text: &TextObject{Type: "plain_text", Text: text}}
}

// SectionBlock renders a mrkdwn section.
func SectionBlock(markdown string) Block {
	return Block{Type: "section", Text: &TextObject{Type: "mrkdwn", Text: markdown}}
}

// ContextBlock renders a single-element mrkdwn context line.
func ContextBlock(markdown string) Block {
	return Block{Type: "context", Elements: []TextObject{{Type: "mrkdwn", Text: markdown}}}
}

// DividerBlock renders a horizontal divider.
func DividerBlock() Block {
	return Block{Type: "divider"}
}
