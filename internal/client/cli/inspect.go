package cli

import (
	"fmt"

	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"

	"github.com/iudanet/prefkeeper/internal/crdt"
	"github.com/iudanet/prefkeeper/internal/merge"
)

var dumper = litter.Options{
	HidePrivateFields: true,
	StripPackageNames: true,
	HomePackage:       "crdt",
}

func (c *Cli) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <document>",
		Short: "Dump the full CRDT state of a local document, tombstones included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd)
			if err != nil {
				return err
			}
			doc, err := env.Docs.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			state, err := stateOf(doc)
			if err != nil {
				return err
			}
			c.io.Printf("%s (%s)\n", args[0], doc.Type())
			c.io.Println(dumper.Sdump(state))
			return nil
		},
	}
}

func stateOf(doc crdt.CRDT) (any, error) {
	switch d := doc.(type) {
	case *crdt.GCounter:
		return d.State(), nil
	case *crdt.PNCounter:
		return d.State(), nil
	case *crdt.LWWRegister[merge.JSONValue]:
		return d.State(), nil
	case *crdt.ORSet[merge.JSONValue]:
		return d.State(), nil
	case *crdt.LWWMap[string, merge.JSONValue]:
		return d.State(), nil
	default:
		return nil, fmt.Errorf("%w: %s", crdt.ErrUnknownType, doc.Type())
	}
}
