package models

// MenuOption is one selectable entry offered with a prompt. The engine
// matches replies on Value or 1-based index, never by re-parsing the
// rendered label.
type MenuOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Reply is the outbound side of one conversation turn.
type Reply struct {
	Text string       `json:"text"`
	Menu []MenuOption `json:"menu,omitempty"`
}

// TextReply builds a reply without a menu.
func TextReply(text string) Reply {
	return Reply{Text: text}
}
