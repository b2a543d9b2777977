package types

import "slices"

// Column is a named, ordered lane of items. The title is the column's only
// identity; two columns may share a title.
type Column struct {
	Title string  `toml:"title" json:"title"`
	Items []*Item `toml:"items" json:"items"`
}

// NewColumn returns an empty column with the given title.
func NewColumn(title string) *Column {
	return &Column{
		Title: title,
		Items: []*Item{},
	}
}

// indexOf returns the position of the item with id, or -1.
func (c *Column) indexOf(id uint16) int {
	for i, itm := range c.Items {
		if itm.ID == id {
			return i
		}
	}
	return -1
}

// removeAt deletes the item at position i and returns it.
func (c *Column) removeAt(i int) *Item {
	itm := c.Items[i]
	c.Items = slices.Delete(c.Items, i, i+1)
	return itm
}
