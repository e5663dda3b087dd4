package domain

// Category is a node of the category tree. Main categories carry their
// sub-categories in Children; leaves have none.
type Category struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Children []Category `json:"children,omitempty"`
}

// HasChildren reports whether the category exposes sub-categories.
func (c Category) HasChildren() bool {
	return len(c.Children) > 0
}

// FindCategory returns the category with the given id from a flat list.
func FindCategory(categories []Category, id int) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CloneCategories returns a deep copy so callers never share children slices.
func CloneCategories(categories []Category) []Category {
	if categories == nil {
		return nil
	}

	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{
			ID:       c.ID,
			Name:     c.Name,
			Children: CloneCategories(c.Children),
		}
	}
	return out
}
