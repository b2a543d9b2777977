// Package command defines the closed set of board commands shared by the
// one-shot CLI and the interactive shell, and executes them against a board.
package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mesh-intelligence/rello/pkg/types"
)

// Unassign is the assignee value that clears an item's assignee on edit.
const Unassign = "-"

// Command is one board operation. The interface is sealed by the unexported
// apply method, so the set of commands is exactly the types in this package.
type Command interface {
	// Name is the command word used in help and log output.
	Name() string

	// apply runs the command against b, writes user-facing confirmation to
	// out, and reports whether b changed.
	apply(b *types.Board, out io.Writer) (bool, error)
}

// List prints the board, as indented text or as JSON.
type List struct {
	JSON bool
}

// AddColumn appends an empty column.
type AddColumn struct {
	Title string
}

// RemoveColumn removes the first column with the title and its items.
type RemoveColumn struct {
	Title string
}

// AddItem creates an item in the first column titled Column.
type AddItem struct {
	Column   string
	Title    string
	Body     string
	Assignee *string
}

// RemoveItem deletes an item by ID.
type RemoveItem struct {
	ID uint16
}

// MoveItem moves an item to the end of the first column titled Column.
type MoveItem struct {
	ID     uint16
	Column string
}

// EditItem overwrites item fields. An empty field means "no change";
// Assignee set to Unassign clears the assignee.
type EditItem struct {
	ID       uint16
	Title    string
	Body     string
	Assignee string
}

// Help prints the shell command reference.
type Help struct{}

// Exit ends an interactive session.
type Exit struct{}

func (List) Name() string         { return "list" }
func (AddColumn) Name() string    { return "column add" }
func (RemoveColumn) Name() string { return "column remove" }
func (AddItem) Name() string      { return "item add" }
func (RemoveItem) Name() string   { return "item remove" }
func (MoveItem) Name() string     { return "item move" }
func (EditItem) Name() string     { return "item edit" }
func (Help) Name() string         { return "help" }
func (Exit) Name() string         { return "exit" }

// Execute runs cmd against b and reports whether b changed. Lookup failures
// are returned as types.ErrColumnNotFound or types.ErrItemNotFound and leave
// b untouched; Message turns them into user-facing text.
func Execute(b *types.Board, cmd Command, out io.Writer) (bool, error) {
	return cmd.apply(b, out)
}

// Message returns the user-facing text for an error returned by Execute.
func Message(err error) string {
	switch {
	case errors.Is(err, types.ErrColumnNotFound):
		return "That column doesn't exist"
	case errors.Is(err, types.ErrItemNotFound):
		return "That item doesn't exist"
	case errors.Is(err, types.ErrIDSpaceExhausted):
		return "No item IDs left on this board"
	default:
		return err.Error()
	}
}

// IsNotFound reports whether err is a lookup failure rather than a fault.
func IsNotFound(err error) bool {
	return errors.Is(err, types.ErrColumnNotFound) || errors.Is(err, types.ErrItemNotFound)
}

func (c List) apply(b *types.Board, out io.Writer) (bool, error) {
	if c.JSON {
		data, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			return false, fmt.Errorf("marshal board: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return false, nil
	}
	fmt.Fprintln(out, b.String())
	return false, nil
}

func (c AddColumn) apply(b *types.Board, out io.Writer) (bool, error) {
	b.CreateColumn(c.Title)
	fmt.Fprintln(out, "Column Added!")
	return true, nil
}

func (c RemoveColumn) apply(b *types.Board, out io.Writer) (bool, error) {
	if err := b.RemoveColumn(c.Title); err != nil {
		return false, err
	}
	fmt.Fprintln(out, "Column Removed!")
	return true, nil
}

func (c AddItem) apply(b *types.Board, out io.Writer) (bool, error) {
	id, err := b.CreateItem(c.Title, c.Body, c.Assignee, c.Column)
	if err != nil {
		return false, err
	}
	fmt.Fprintf(out, "Item Added! (ID: %d)\n", id)
	return true, nil
}

func (c RemoveItem) apply(b *types.Board, out io.Writer) (bool, error) {
	if err := b.RemoveItem(c.ID); err != nil {
		return false, err
	}
	fmt.Fprintln(out, "Item Removed!")
	return true, nil
}

func (c MoveItem) apply(b *types.Board, out io.Writer) (bool, error) {
	if err := b.MoveItem(c.ID, c.Column); err != nil {
		return false, err
	}
	fmt.Fprintln(out, "Moved Item")
	return true, nil
}

func (c EditItem) apply(b *types.Board, out io.Writer) (bool, error) {
	if _, ok := b.ItemExists(c.ID); !ok {
		return false, types.ErrItemNotFound
	}

	changed := false
	if c.Title != "" {
		if err := b.EditItemTitle(c.ID, c.Title); err != nil {
			return changed, err
		}
		changed = true
	} else {
		fmt.Fprintln(out, "Title unchanged")
	}
	if c.Body != "" {
		if err := b.EditItemBody(c.ID, c.Body); err != nil {
			return changed, err
		}
		changed = true
	} else {
		fmt.Fprintln(out, "Body unchanged")
	}
	if c.Assignee != "" {
		var who *string
		if c.Assignee != Unassign {
			who = &c.Assignee
		}
		if err := b.EditItemAssignee(c.ID, who); err != nil {
			return changed, err
		}
		changed = true
	}

	fmt.Fprintln(out, "Item Edited!")
	return changed, nil
}

func (Help) apply(_ *types.Board, out io.Writer) (bool, error) {
	fmt.Fprint(out, HelpText)
	return false, nil
}

func (Exit) apply(_ *types.Board, _ io.Writer) (bool, error) {
	return false, nil
}
