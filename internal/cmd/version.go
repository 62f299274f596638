package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/David-Botos/contact-cleanse/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the contact-cleanse version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "contact-cleanse", version.Current)
		},
	}
}
