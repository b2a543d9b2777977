// Package store persists rello boards. The default backend keeps the board in
// a TOML file; the sqlite backend keeps it in a single-file SQLite database.
package store

import (
	"bytes"
	"fmt"
	"math"

	"github.com/BurntSushi/toml"

	"github.com/mesh-intelligence/rello/pkg/types"
)

// Encode renders b as a TOML document:
//
//	counter = 2
//
//	[[columns]]
//	  title = "ToDo"
//
//	  [[columns.items]]
//	    id = 0
//	    title = "Fix bug"
//	    body = "desc"
//	    assignee = "ana"
//
// Unassigned items carry no assignee key.
func Encode(b *types.Board) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(b); err != nil {
		return nil, fmt.Errorf("encoding board: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a TOML document produced by Encode. Empty input decodes to
// an empty board. Unknown keys are ignored so newer files still load.
func Decode(data []byte) (*types.Board, error) {
	b := types.NewBoard()
	if len(bytes.TrimSpace(data)) == 0 {
		return b, nil
	}
	if _, err := toml.Decode(string(data), b); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrCorruptBoard, err)
	}
	if err := normalize(b); err != nil {
		return nil, err
	}
	return b, nil
}

// normalize restores the in-memory invariants of a freshly decoded board.
// Duplicate item IDs are rejected. A counter that lags behind the highest
// stored ID is raised so new items never collide with existing ones.
func normalize(b *types.Board) error {
	if b.Columns == nil {
		b.Columns = []*types.Column{}
	}
	seen := make(map[uint16]bool)
	next := int(b.Counter)
	for _, col := range b.Columns {
		if col.Items == nil {
			col.Items = []*types.Item{}
		}
		for _, itm := range col.Items {
			if seen[itm.ID] {
				return fmt.Errorf("%w: duplicate item id %d", types.ErrCorruptBoard, itm.ID)
			}
			seen[itm.ID] = true
			if int(itm.ID) >= next {
				next = int(itm.ID) + 1
			}
		}
	}
	b.Counter = uint16(min(next, math.MaxUint16))
	return nil
}
