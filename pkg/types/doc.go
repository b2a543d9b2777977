// Package types defines the rello board document (Board, Column, Item), its
// mutation and query operations, the Store interface used to persist it, and
// the standard error values shared by the rest of the module.
package types
