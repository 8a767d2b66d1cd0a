package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/goNexus/guard"
)

func newRoutesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List guarded routes and whether the current session may open them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.engine.Start(cmd.Context())
			who := o.engine.CurrentIdentity()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tROLES\tDECISION")
			for _, route := range o.engine.Routes().Routes() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", route.Path, route.Allowed, route.Decide(who))
			}
			return tw.Flush()
		},
	}
}

func newCheckCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Run the route guard for a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o.engine.Start(cmd.Context())
			out := cmd.OutOrStdout()

			res, ok := o.engine.Evaluate(args[0])
			if !ok {
				fmt.Fprintf(out, "%s: no route, falls back to /\n", args[0])
				return nil
			}
			switch res.State {
			case guard.Permit:
				fmt.Fprintf(out, "%s: permit (route %s)\n", res.Location, res.Route)
			case guard.DeniedUnauthenticated:
				fmt.Fprintf(out, "%s: redirect to %s?from=%s\n", res.Location, res.Redirect, res.Location)
			default:
				fmt.Fprintf(out, "%s: %s, redirect to %s\n", res.Location, res.State, res.Redirect)
			}
			return nil
		},
	}
}
