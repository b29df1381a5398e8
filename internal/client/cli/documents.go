package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iudanet/prefkeeper/internal/provider"
)

func (c *Cli) tagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Work with replicated tag sets (add wins over concurrent remove)",
	}

	var asString bool
	add := &cobra.Command{
		Use:   "add <set> <value>...",
		Short: "Add values to a tag set",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd)
			if err != nil {
				return err
			}
			set, err := env.Docs.Tags(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			for _, arg := range args[1:] {
				value, err := parseValue(arg, asString)
				if err != nil {
					return err
				}
				set.Add(value)
			}

			if err := env.Docs.Save(cmd.Context(), provider.TagDocument(args[0]), set); err != nil {
				return err
			}
			c.io.Printf("%s: %d value(s)\n", args[0], set.Len())
			return nil
		},
	}
	add.Flags().BoolVar(&asString, "string", false, "Store values as strings even if they are valid JSON")

	remove := &cobra.Command{
		Use:   "remove <set> <value>...",
		Short: "Remove values from a tag set",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd)
			if err != nil {
				return err
			}
			set, err := env.Docs.Tags(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			removed := 0
			for _, arg := range args[1:] {
				value, err := parseValue(arg, false)
				if err != nil {
					return err
				}
				if set.Remove(value) {
					removed++
				}
			}

			if removed == 0 {
				c.io.Println("Nothing to remove.")
				return nil
			}
			if err := env.Docs.Save(cmd.Context(), provider.TagDocument(args[0]), set); err != nil {
				return err
			}
			c.io.Printf("%s: removed %d, %d value(s) left\n", args[0], removed, set.Len())
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list <set>",
		Short: "Show the values of a tag set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd)
			if err != nil {
				return err
			}
			set, err := env.Docs.Tags(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			values := set.Values()
			slices.Sort(values)
			for _, v := range values {
				c.io.Println(v.String())
			}
			return nil
		},
	}

	cmd.AddCommand(add, remove, list)
	return cmd
}

func (c *Cli) counterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Work with replicated counters",
	}

	change := func(use, short string, decrement bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <name> [delta]",
			Short: short,
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				delta := int64(1)
				if len(args) == 2 {
					parsed, err := strconv.ParseInt(args[1], 10, 64)
					if err != nil {
						return fmt.Errorf("invalid delta %q: %w", args[1], err)
					}
					delta = parsed
				}

				env, err := c.environment(cmd)
				if err != nil {
					return err
				}
				counter, err := env.Docs.Counter(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				if decrement {
					err = counter.Decrement(delta)
				} else {
					err = counter.Increment(delta)
				}
				if err != nil {
					return err
				}

				if err := env.Docs.Save(cmd.Context(), provider.CounterDocument(args[0]), counter); err != nil {
					return err
				}
				c.io.Printf("%s = %d\n", args[0], counter.Value())
				return nil
			},
		}
	}

	get := &cobra.Command{
		Use:   "get <name>",
		Short: "Show a counter value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd)
			if err != nil {
				return err
			}
			counter, err := env.Docs.Counter(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c.io.Printf("%s = %d\n", args[0], counter.Value())
			return nil
		},
	}

	cmd.AddCommand(
		change("inc", "Increment a counter", false),
		change("dec", "Decrement a counter", true),
		get,
	)
	return cmd
}

func (c *Cli) registerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Work with last-write-wins registers",
	}

	var asString bool
	set := &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Assign a register",
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
			register, err := env.Docs.Register(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			register.Set(value)
			if err := env.Docs.Save(cmd.Context(), provider.RegisterDocument(args[0]), register); err != nil {
				return err
			}
			c.io.Printf("%s = %s\n", args[0], value)
			return nil
		},
	}
	set.Flags().BoolVar(&asString, "string", false, "Store the value as a string even if it is valid JSON")

	get := &cobra.Command{
		Use:   "get <name>",
		Short: "Show a register value and its writer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd)
			if err != nil {
				return err
			}
			register, err := env.Docs.Register(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			value, ok := register.Get()
			if !ok {
				return fmt.Errorf("%w: register %s was never set", ErrKeyNotFound, args[0])
			}
			c.io.Printf("%s = %s (written by %s)\n", args[0], value, register.Writer())
			return nil
		},
	}

	cmd.AddCommand(set, get)
	return cmd
}

func (c *Cli) documentsCommand() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "documents",
		Short: "List local documents, or the hub's with --remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd)
			if err != nil {
				return err
			}

			if remote {
				docs, err := env.API.Documents(cmd.Context())
				if err != nil {
					return err
				}
				for _, doc := range docs {
					c.io.Printf("%-32s %-14s %s\n", doc.Name, doc.Type, doc.UpdatedAt.Format("2006-01-02 15:04:05"))
				}
				return nil
			}

			names, err := env.Docs.Names(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				doc, err := env.Docs.Load(cmd.Context(), name)
				if err != nil {
					c.io.Printf("%-32s <unreadable: %v>\n", name, err)
					continue
				}
				c.io.Printf("%-32s %s\n", name, doc.Type())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "List documents stored on the hub")
	return cmd
}
