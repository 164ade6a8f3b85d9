package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func (a *app) personasCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "personas",
		Short: "List client personas in fallback order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ps := a.newResolver(a.clientConfig()).Personas()
			if lo.Must(cmd.Flags().GetBool("json")) {
				return writeJSON(cmd.OutOrStdout(), ps)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tID\tCLIENT\tVERSION\tLOGIN")
			for i, p := range ps {
				login := "-"
				switch {
				case p.LoginRequired:
					login = "required"
				case p.LoginSupported:
					login = "supported"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i, p.ID, p.ClientName, p.ClientVersion, login)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Bool("json", false, "print as JSON")
	return cmd
}
