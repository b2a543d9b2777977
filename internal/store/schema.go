package store

// Schema DDL for the sqlite backend. Positions preserve insertion order of
// columns and of items within a column.
const (
	createBoard = `CREATE TABLE IF NOT EXISTS board (
    singleton INTEGER PRIMARY KEY CHECK (singleton = 0),
    counter INTEGER NOT NULL
);`

	createColumns = `CREATE TABLE IF NOT EXISTS columns (
    position INTEGER PRIMARY KEY,
    title TEXT NOT NULL
);`

	createItems = `CREATE TABLE IF NOT EXISTS items (
    id INTEGER PRIMARY KEY,
    column_position INTEGER NOT NULL,
    position INTEGER NOT NULL,
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    assignee TEXT,
    FOREIGN KEY (column_position) REFERENCES columns(position) ON DELETE CASCADE
);`

	createItemsIndex = `CREATE INDEX IF NOT EXISTS idx_items_column ON items(column_position, position);`
)

// schemaStatements lists the DDL in execution order.
var schemaStatements = []string{
	createBoard,
	createColumns,
	createItems,
	createItemsIndex,
}
