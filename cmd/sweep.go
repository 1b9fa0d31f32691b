package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/robmiller/expurgate/di"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire stale entries and enforce capacity once",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		key, err := di.LoadKey(ctx, di.NewKeyProvider(cfg))
		if err != nil {
			return fmt.Errorf("load secret key: %w", err)
		}

		container, err := di.NewApplicationComponents(ctx, cfg, key)
		if err != nil {
			return err
		}
		defer container.Close()

		expired, err := container.EvictionUsecase.Sweep(ctx, time.Now())
		if err != nil {
			return fmt.Errorf("sweep: %w", err)
		}
		evicted, err := container.EvictionUsecase.EnforceCapacity(ctx)
		if err != nil {
			return fmt.Errorf("enforce capacity: %w", err)
		}

		inventory, err := container.CacheStore.List(ctx)
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "expired: %d\nevicted: %t\nentries: %d\n", expired, evicted, len(inventory))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
