package contract

// Snapshot is the read-only view of the current conversation turn that the
// dialogue engine hands to an action. Actions never mutate it.
type Snapshot struct {
	SenderID    string         `json:"sender_id"`
	MessageText string         `json:"message_text"`
	Slots       map[string]any `json:"slots,omitempty"`
	History     []Turn         `json:"history,omitempty"`
}

// Turn is one prior exchange in the conversation history.
type Turn struct {
	Role string `json:"role"` // "user" | "bot"
	Text string `json:"text"`
}

// Message is one unit of response content emitted by an action. Text is always
// non-empty; Image, when set, is a self-contained data URI.
type Message struct {
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

// Event is a state-mutation event returned to the dialogue engine.
type Event struct {
	Type  string `json:"event"`
	Name  string `json:"name,omitempty"`
	Value any    `json:"value,omitempty"`
}
