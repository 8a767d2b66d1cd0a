package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	goNexus "github.com/MrEthical07/goNexus"
)

func newLoginCmd(o *options) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as one of the mock roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o.engine.Start(ctx)

			s, err := o.engine.LoginRole(ctx, role)
			if errors.Is(err, goNexus.ErrAuthenticationFailed) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Authentication failed. Please try again.")
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Signed in as %s <%s>\n", s.Identity.Name, s.Identity.Email)
			fmt.Fprintf(out, "  Role:    %s\n", s.Identity.Role)
			fmt.Fprintf(out, "  Session: %s\n", s.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "Role to sign in as (ADMIN, USER)")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func newLogoutCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o.engine.Start(ctx)
			if err := o.engine.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the restored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := o.engine.Start(cmd.Context())
			out := cmd.OutOrStdout()

			s, ok := o.engine.Current()
			if !ok {
				fmt.Fprintf(out, "Not signed in (restore: %s)\n", status)
				return nil
			}
			fmt.Fprintf(out, "%s <%s>\n", s.Identity.Name, s.Identity.Email)
			fmt.Fprintf(out, "  ID:      %s\n", s.Identity.ID)
			fmt.Fprintf(out, "  Role:    %s\n", s.Identity.Role)
			fmt.Fprintf(out, "  Session: %s (since %s)\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}
