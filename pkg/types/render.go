package types

import (
	"fmt"
	"strings"
)

// String renders the board as indented text for display:
//
//	Board:
//		ToDo:
//			(ID: 0) Title: Fix bug, Body: desc, Assigned To: ana
//
// The output is a pure function of the board and is never parsed back.
func (b *Board) String() string {
	cols := make([]string, len(b.Columns))
	for i, col := range b.Columns {
		cols[i] = col.String()
	}
	return "Board: \n\t" + strings.Join(cols, "\n\t")
}

// String renders the column title followed by its items.
func (c *Column) String() string {
	items := make([]string, len(c.Items))
	for i, itm := range c.Items {
		items[i] = itm.String()
	}
	return c.Title + ": \n\t\t" + strings.Join(items, "\n\t\t")
}

// String renders a single item line. The assignee clause is omitted when the
// item is unassigned.
func (i *Item) String() string {
	if i.Assignee != nil {
		return fmt.Sprintf("(ID: %d) Title: %s, Body: %s, Assigned To: %s", i.ID, i.Title, i.Body, *i.Assignee)
	}
	return fmt.Sprintf("(ID: %d) Title: %s, Body: %s", i.ID, i.Title, i.Body)
}
