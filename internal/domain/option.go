package domain

// OtherOptionName is the default label of the option appended to every group.
const OtherOptionName = "other"

// Option is a leaf selectable value.
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OptionGroup is a named set of options tied to a sub-category, as returned by
// the properties endpoint.
type OptionGroup struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

// FindOption returns the option with the given id inside the group.
func (g OptionGroup) FindOption(id int64) (Option, bool) {
	for _, o := range g.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}
