package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

func (c *Cli) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Show a preference value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd)
			if err != nil {
				return err
			}
			prefs, err := env.Preferences(cmd.Context())
			if err != nil {
				return err
			}

			value, ok := prefs.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", ErrKeyNotFound, args[0])
			}
			c.io.Println(value.String())
			return nil
		},
	}
}

func (c *Cli) setCommand() *cobra.Command {
	var asString bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a preference (value is JSON, plain text is stored as a string)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseValue(args[1], asString)
			if err != nil {
				return err
			}

			env, err := c.environment(cmd)
			if err != nil {
				return err
			}
			prefs, err := env.Preferences(cmd.Context())
			if err != nil {
				return err
			}

			if err := prefs.Set(cmd.Context(), args[0], value); err != nil {
				return err
			}
			c.io.Printf("%s = %s\n", args[0], value)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asString, "string", false, "Store the value as a string even if it is valid JSON")
	return cmd
}

func (c *Cli) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <key>",
		Aliases: []string{"rm"},
		Short:   "Delete a preference",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd)
			if err != nil {
				return err
			}
			prefs, err := env.Preferences(cmd.Context())
			if err != nil {
				return err
			}

			existed := prefs.Has(args[0])
			if err := prefs.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			if existed {
				c.io.Printf("Deleted %s\n", args[0])
			} else {
				c.io.Printf("%s was not set, tombstone recorded\n", args[0])
			}
			return nil
		},
	}
}

func (c *Cli) listCommand() *cobra.Command {
	var tombstones bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List preferences",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd)
			if err != nil {
				return err
			}
			prefs, err := env.Preferences(cmd.Context())
			if err != nil {
				return err
			}

			if tombstones {
				entries := prefs.Document().Entries()
				for _, key := range slices.Sorted(maps.Keys(entries)) {
					entry := entries[key]
					if entry.Deleted {
						c.io.Printf("%s (deleted by %s at %d)\n", key, entry.Writer, entry.Timestamp)
						continue
					}
					c.io.Printf("%s = %s\n", key, entry.Value)
				}
				return nil
			}

			all := prefs.GetAll()
			if len(all) == 0 {
				c.io.Println("No preferences set.")
				return nil
			}
			for _, key := range slices.Sorted(maps.Keys(all)) {
				c.io.Printf("%s = %s\n", key, all[key])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&tombstones, "tombstones", false, "Include deleted keys")
	return cmd
}

func (c *Cli) clearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				answer, err := c.io.ReadInput("Delete all preferences? [y/N]: ")
				if err != nil {
					return err
				}
				if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
					c.io.Println("Aborted.")
					return nil
				}
			}

			env, err := c.environment(cmd)
			if err != nil {
				return err
			}
			prefs, err := env.Preferences(cmd.Context())
			if err != nil {
				return err
			}

			if err := prefs.Clear(cmd.Context()); err != nil {
				return err
			}
			c.io.Println("All preferences deleted.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
