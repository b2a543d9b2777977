package types

// Item is a single unit of work on the board. Its ID is assigned from the
// board counter when the item is created and never changes.
type Item struct {
	ID       uint16  `toml:"id" json:"id"`
	Title    string  `toml:"title" json:"title"`
	Body     string  `toml:"body" json:"body"`
	Assignee *string `toml:"assignee,omitempty" json:"assignee,omitempty"`
}

// NewItem builds an item. A nil assignee means unassigned.
func NewItem(id uint16, title, body string, assignee *string) *Item {
	return &Item{
		ID:       id,
		Title:    title,
		Body:     body,
		Assignee: copyString(assignee),
	}
}

// HasAssignee reports whether the item is assigned to someone.
func (i *Item) HasAssignee() bool {
	return i.Assignee != nil
}

// copyString returns an independent copy of s so callers cannot alias the
// item's assignee.
func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
