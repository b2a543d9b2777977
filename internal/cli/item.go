package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rello/internal/command"
)

// Prompts for values not given as flags or arguments.
const (
	promptColumn      = "Enter Column"
	promptTitle       = "Enter Title"
	promptBody        = "Enter Body"
	promptAssignee    = "Enter Assignee (Press Enter If None)"
	promptNewTitle    = "New Title (Press Enter If No Change)"
	promptNewBody     = "New Body (Press Enter If No Change)"
	promptNewAssignee = "New Assignee (Press Enter If No Change, - To Unassign)"
)

func newItemCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Add, remove, move, or edit items",
	}

	cmd.AddCommand(newItemAddCmd(a))
	cmd.AddCommand(newItemRemoveCmd(a))
	cmd.AddCommand(newItemMoveCmd(a))
	cmd.AddCommand(newItemEditCmd(a))
	return cmd
}

func newItemAddCmd(a *app) *cobra.Command {
	var column, title, body, assignee string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item to a column",
		Long:  "Add an item to the first column with the given title.\nValues not given as flags are prompted for on stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			fields := []struct {
				flag     string
				question string
				value    *string
			}{
				{"column", promptColumn, &column},
				{"title", promptTitle, &title},
				{"body", promptBody, &body},
				{"assignee", promptAssignee, &assignee},
			}
			for _, f := range fields {
				if cmd.Flags().Changed(f.flag) {
					continue
				}
				answer, err := p.ask(f.question)
				if err != nil {
					return sysError(err)
				}
				*f.value = answer
			}

			add := command.AddItem{Column: column, Title: title, Body: body}
			if assignee != "" {
				add.Assignee = &assignee
			}
			return a.runCommand(cmd, add)
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "column title")
	cmd.Flags().StringVar(&title, "title", "", "item title")
	cmd.Flags().StringVar(&body, "body", "", "item body")
	cmd.Flags().StringVar(&assignee, "assignee", "", "person the item is assigned to")
	return cmd
}

func newItemRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return a.runCommand(cmd, command.RemoveItem{ID: id})
		},
	}
}

func newItemMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "move <id> [column]",
		Aliases: []string{"mv"},
		Short:   "Move an item to the end of a column",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			var column string
			if len(args) == 2 {
				column = args[1]
			} else {
				column, err = newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).ask(promptColumn)
				if err != nil {
					return sysError(err)
				}
			}
			return a.runCommand(cmd, command.MoveItem{ID: id, Column: column})
		},
	}
}

func newItemEditCmd(a *app) *cobra.Command {
	var title, body, assignee string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an item's title, body, or assignee",
		Long: "Overwrite item fields. Empty values leave a field unchanged and an\n" +
			"assignee of \"-\" unassigns the item. With no flags, each field is\n" +
			"prompted for on stdin.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("body") && !flags.Changed("assignee") {
				p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				for _, f := range []struct {
					question string
					value    *string
				}{
					{promptNewTitle, &title},
					{promptNewBody, &body},
					{promptNewAssignee, &assignee},
				} {
					if *f.value, err = p.ask(f.question); err != nil {
						return sysError(err)
					}
				}
			}

			return a.runCommand(cmd, command.EditItem{ID: id, Title: title, Body: body, Assignee: assignee})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&body, "body", "", "new body")
	cmd.Flags().StringVar(&assignee, "assignee", "", `new assignee ("-" unassigns)`)
	return cmd
}
