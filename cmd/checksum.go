package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robmiller/expurgate/di"
	"github.com/robmiller/expurgate/utils/checksum"
)

var checksumCmd = &cobra.Command{
	Use:   "checksum <url>...",
	Short: "Print the checksum for one or more image URLs",
	Long: `Print the checksum that authorizes each URL under the configured key.
With --query the full query string is printed instead, ready to append to
the proxy address.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetBool("query")

		key, err := di.LoadKey(cmd.Context(), di.NewKeyProvider(cfg))
		if err != nil {
			return fmt.Errorf("load secret key: %w", err)
		}
		authenticator, err := checksum.NewAuthenticator(key)
		if err != nil {
			return err
		}

		for _, imageURL := range args {
			if query {
				fmt.Fprintln(cmd.OutOrStdout(), authenticator.SignedQuery(imageURL))
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), authenticator.Derive(imageURL))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checksumCmd)

	checksumCmd.Flags().Bool("query", false, "print url=...&checksum=... instead of the bare checksum")
}
