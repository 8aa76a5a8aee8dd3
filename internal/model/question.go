package model

// Question is the canonical past-question record used throughout the session
// flow. It is the normalized form of whatever shape the upstream question-bank
// service returns; any field may be empty when the upstream record lacked it.
type Question struct {
	Instruction string   `json:"instruction,omitempty"`
	Text        string   `json:"text,omitempty"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer,omitempty"`
	Correction  string   `json:"correction,omitempty"`
}

// OptionLabel returns the display label for the option at index i (A, B, C...).
func OptionLabel(i int) string {
	return string(rune('A' + i))
}
