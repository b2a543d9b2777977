package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mesh-intelligence/rello/pkg/types"
)

// HelpText is the shell command reference printed by Help.
const HelpText = `Commands:
  list [--json]                                  show the board
  column add <title>                             add a column
  column remove <title>                          remove a column and its items
  item add <column> <title> [<body> [<assignee>]]
                                                 add an item to a column
  item remove <id>                               remove an item
  item move <id> <column>                        move an item to a column
  item edit <id> <title> [<body> [<assignee>]]   edit an item ("" keeps a field, - unassigns)
  help                                           show this help
  exit | quit                                    save and leave the shell
`

// Parse errors.
var (
	ErrUnknownCommand    = errors.New("unknown command")
	ErrUsage             = errors.New("wrong arguments")
	ErrUnterminatedQuote = errors.New("unterminated quote")
	ErrDanglingEscape    = errors.New("backslash at end of line")
)

// ParseID parses an item ID. IDs are non-negative integers that fit in 16
// bits; anything else wraps types.ErrInvalidID.
func ParseID(s string) (uint16, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidID, s)
	}
	return uint16(n), nil
}

// ParseLine splits a shell line into words and parses them. A blank line
// returns a nil Command and nil error.
func ParseLine(line string) (Command, error) {
	args, err := SplitLine(line)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, nil
	}
	return Parse(args)
}

// Parse maps shell words to a Command.
func Parse(args []string) (Command, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrUsage)
	}

	switch args[0] {
	case "list", "ls":
		switch {
		case len(args) == 1:
			return List{}, nil
		case len(args) == 2 && args[1] == "--json":
			return List{JSON: true}, nil
		}
		return nil, usage("list [--json]")
	case "column":
		return parseColumn(args[1:])
	case "item":
		return parseItem(args[1:])
	case "help", "?":
		return Help{}, nil
	case "exit", "quit":
		return Exit{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (try \"help\")", ErrUnknownCommand, args[0])
	}
}

func parseColumn(args []string) (Command, error) {
	if len(args) != 2 {
		return nil, usage("column add|remove <title>")
	}
	switch args[0] {
	case "add":
		return AddColumn{Title: args[1]}, nil
	case "remove", "rm":
		return RemoveColumn{Title: args[1]}, nil
	}
	return nil, usage("column add|remove <title>")
}

func parseItem(args []string) (Command, error) {
	if len(args) == 0 {
		return nil, usage("item add|remove|move|edit ...")
	}
	rest := args[1:]

	switch args[0] {
	case "add":
		if len(rest) < 2 || len(rest) > 4 {
			return nil, usage("item add <column> <title> [<body> [<assignee>]]")
		}
		cmd := AddItem{Column: rest[0], Title: rest[1]}
		if len(rest) > 2 {
			cmd.Body = rest[2]
		}
		if len(rest) > 3 && rest[3] != "" {
			who := rest[3]
			cmd.Assignee = &who
		}
		return cmd, nil

	case "remove", "rm":
		if len(rest) != 1 {
			return nil, usage("item remove <id>")
		}
		id, err := ParseID(rest[0])
		if err != nil {
			return nil, err
		}
		return RemoveItem{ID: id}, nil

	case "move", "mv":
		if len(rest) != 2 {
			return nil, usage("item move <id> <column>")
		}
		id, err := ParseID(rest[0])
		if err != nil {
			return nil, err
		}
		return MoveItem{ID: id, Column: rest[1]}, nil

	case "edit":
		if len(rest) < 2 || len(rest) > 4 {
			return nil, usage("item edit <id> <title> [<body> [<assignee>]]")
		}
		id, err := ParseID(rest[0])
		if err != nil {
			return nil, err
		}
		cmd := EditItem{ID: id, Title: rest[1]}
		if len(rest) > 2 {
			cmd.Body = rest[2]
		}
		if len(rest) > 3 {
			cmd.Assignee = rest[3]
		}
		return cmd, nil
	}
	return nil, usage("item add|remove|move|edit ...")
}

func usage(u string) error {
	return fmt.Errorf("%w, usage: %s", ErrUsage, u)
}

// SplitLine splits a line into words on unquoted whitespace. Single and
// double quotes group words and may produce empty words (""); a backslash
// escapes the next character outside single quotes.
func SplitLine(line string) ([]string, error) {
	var (
		words   []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case unicode.IsSpace(r):
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}

	if escaped {
		return nil, ErrDanglingEscape
	}
	if quote != 0 {
		return nil, ErrUnterminatedQuote
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}
