package types

import (
	"math"
	"slices"
)

// Board is the root document. Counter is the next item ID to hand out; it
// only ever increases, so IDs are never reused even after removals.
//
// A Board is not safe for concurrent use. It is owned by the single caller
// that loaded it and is passed explicitly through load, mutate, and save.
type Board struct {
	Counter uint16    `toml:"counter" json:"counter"`
	Columns []*Column `toml:"columns" json:"columns"`
}

// NewBoard returns an empty board with a zero counter.
func NewBoard() *Board {
	return &Board{Columns: []*Column{}}
}

// CreateColumn appends an empty column. Duplicate titles are allowed; later
// duplicates are shadowed by the first one for every title lookup.
func (b *Board) CreateColumn(title string) {
	b.Columns = append(b.Columns, NewColumn(title))
}

// RemoveColumn removes the first column titled title together with all of
// its items. Returns ErrColumnNotFound if there is no such column.
func (b *Board) RemoveColumn(title string) error {
	i := b.columnIndex(title)
	if i < 0 {
		return ErrColumnNotFound
	}
	b.Columns = slices.Delete(b.Columns, i, i+1)
	return nil
}

// CreateItem appends a new item to the first column titled column and
// returns its ID. The ID is taken from Counter, which is then incremented.
// When the column does not exist no item is created and no ID is consumed.
func (b *Board) CreateItem(title, body string, assignee *string, column string) (uint16, error) {
	i := b.columnIndex(column)
	if i < 0 {
		return 0, ErrColumnNotFound
	}
	if b.Counter == math.MaxUint16 {
		return 0, ErrIDSpaceExhausted
	}
	id := b.Counter
	col := b.Columns[i]
	col.Items = append(col.Items, NewItem(id, title, body, assignee))
	b.Counter++
	return id, nil
}

// RemoveItem removes the item with the given ID.
// Returns ErrItemNotFound if no column holds it.
func (b *Board) RemoveItem(id uint16) error {
	ci, ii := b.locate(id)
	if ci < 0 {
		return ErrItemNotFound
	}
	b.Columns[ci].removeAt(ii)
	return nil
}

// EditItemTitle overwrites the title of the item with the given ID.
func (b *Board) EditItemTitle(id uint16, title string) error {
	itm, _, ok := b.Item(id)
	if !ok {
		return ErrItemNotFound
	}
	itm.Title = title
	return nil
}

// EditItemBody overwrites the body of the item with the given ID.
func (b *Board) EditItemBody(id uint16, body string) error {
	itm, _, ok := b.Item(id)
	if !ok {
		return ErrItemNotFound
	}
	itm.Body = body
	return nil
}

// EditItemAssignee overwrites the assignee of the item with the given ID.
// A nil assignee unassigns the item.
func (b *Board) EditItemAssignee(id uint16, assignee *string) error {
	itm, _, ok := b.Item(id)
	if !ok {
		return ErrItemNotFound
	}
	itm.Assignee = copyString(assignee)
	return nil
}

// MoveItem moves the item with the given ID to the end of the first column
// titled column. Both ends are resolved before anything changes: if the
// destination is missing it returns ErrColumnNotFound, otherwise if the item
// is missing it returns ErrItemNotFound, and in both cases the board is left
// untouched. Moving an item into the column that already holds it sends it
// to the end of that column.
func (b *Board) MoveItem(id uint16, column string) error {
	dst := b.columnIndex(column)
	if dst < 0 {
		return ErrColumnNotFound
	}
	ci, ii := b.locate(id)
	if ci < 0 {
		return ErrItemNotFound
	}
	itm := b.Columns[ci].removeAt(ii)
	b.Columns[dst].Items = append(b.Columns[dst].Items, itm)
	return nil
}

// ColumnExists reports whether some column is titled title.
func (b *Board) ColumnExists(title string) bool {
	return b.columnIndex(title) >= 0
}

// ItemExists returns the title of the column holding the item with the given
// ID, and false if there is no such item.
func (b *Board) ItemExists(id uint16) (string, bool) {
	ci, _ := b.locate(id)
	if ci < 0 {
		return "", false
	}
	return b.Columns[ci].Title, true
}

// Column returns the first column titled title.
func (b *Board) Column(title string) (*Column, bool) {
	i := b.columnIndex(title)
	if i < 0 {
		return nil, false
	}
	return b.Columns[i], true
}

// Item returns the item with the given ID and the title of its column.
func (b *Board) Item(id uint16) (*Item, string, bool) {
	ci, ii := b.locate(id)
	if ci < 0 {
		return nil, "", false
	}
	col := b.Columns[ci]
	return col.Items[ii], col.Title, true
}

// ItemCount returns the number of items across all columns.
func (b *Board) ItemCount() int {
	n := 0
	for _, col := range b.Columns {
		n += len(col.Items)
	}
	return n
}

// columnIndex returns the position of the first column titled title, or -1.
func (b *Board) columnIndex(title string) int {
	for i, col := range b.Columns {
		if col.Title == title {
			return i
		}
	}
	return -1
}

// locate returns the column and item positions of the item with id, or
// (-1, -1). Columns are scanned in order, then items within each column.
func (b *Board) locate(id uint16) (int, int) {
	for ci, col := range b.Columns {
		if ii := col.indexOf(id); ii >= 0 {
			return ci, ii
		}
	}
	return -1, -1
}
