package domain

// SelectionEntry is one recorded choice. Exactly one of Option or Text is set:
// Option for a picked value, Text for free input typed against "other".
type SelectionEntry struct {
	Key    string  `json:"key"`
	Option *Option `json:"option,omitempty"`
	Text   string  `json:"text,omitempty"`
}

// Display is the cell value shown in the results table.
func (e SelectionEntry) Display() string {
	if e.Option != nil {
		return e.Option.Name
	}
	return e.Text
}

// OptionEntry records a picked option for a group.
func OptionEntry(key string, option Option) SelectionEntry {
	return SelectionEntry{Key: key, Option: &option}
}

// TextEntry records free text typed against the "other" option of a group.
func TextEntry(key, text string) SelectionEntry {
	return SelectionEntry{Key: key, Text: text}
}
