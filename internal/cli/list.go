package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/maxviazov/edge-client/pkg/edge"
	"github.com/maxviazov/edge-client/pkg/pagination"
)

// listFlags are shared by the listing subcommands.
type listFlags struct {
	ids      bool
	startKey string
	limit    int
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.ids, "ids", false, "print ids only")
	cmd.Flags().StringVar(&f.startKey, "start-key", "", "fetch a single page starting at this key (inclusive)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "fetch a single page of at most this many entities")
}

// pager returns nil for a full listing, or the single page asked for.
func (f *listFlags) pager(cmd *cobra.Command) *pagination.Pager {
	if !cmd.Flags().Changed("start-key") && !cmd.Flags().Changed("limit") {
		return nil
	}
	p := pagination.NewPager(f.startKey, f.limit)
	return &p
}

// lister is the part of the entity controllers used by the commands.
type lister[E any] interface {
	List(ctx context.Context, pager *pagination.Pager) (*pagination.Ordered[E], error)
	ListIDs(ctx context.Context, pager *pagination.Pager) ([]string, error)
}

func runList[E any](cmd *cobra.Command, l lister[E], f *listFlags) error {
	ctx := cmd.Context()
	pager := f.pager(cmd)
	if f.ids {
		ids, err := l.ListIDs(ctx, pager)
		if err != nil {
			return err
		}
		return printJSON(cmd, ids)
	}
	entities, err := l.List(ctx, pager)
	if err != nil {
		return err
	}
	return printJSON(cmd, entities.Values())
}

func registerDevelopersCmd(root *cobra.Command, a *app) {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "developers",
		Short: "list the developers of the organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			devs, err := edge.NewDeveloperController(a.client)
			if err != nil {
				return err
			}
			return runList[edge.Developer](cmd, devs, &f)
		},
	}
	f.register(cmd)
	root.AddCommand(cmd)
}

func registerAPIProductsCmd(root *cobra.Command, a *app) {
	var (
		f         listFlags
		attrName  string
		attrValue string
	)
	cmd := &cobra.Command{
		Use:   "apiproducts",
		Short: "list the API products of the organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := edge.NewAPIProductController(a.client)
			if err != nil {
				return err
			}
			if attrName == "" {
				return runList[edge.APIProduct](cmd, products, &f)
			}
			if f.ids || f.pager(cmd) != nil {
				return errors.New("--attribute cannot be combined with --ids, --start-key or --limit")
			}
			filtered, err := products.ListByAttribute(cmd.Context(), attrName, attrValue)
			if err != nil {
				return err
			}
			return printJSON(cmd, filtered.Values())
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&attrName, "attribute", "", "only list products carrying this attribute")
	cmd.Flags().StringVar(&attrValue, "attribute-value", "", "value the --attribute must have")
	root.AddCommand(cmd)
}
