package cli

import (
	"github.com/spf13/cobra"

	"github.com/iudanet/prefkeeper/internal/client/sync"
)

func (c *Cli) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [document]",
		Short: "Synchronize local documents with the hub",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd)
			if err != nil {
				return err
			}

			c.io.Println("=== Synchronization ===")
			c.io.Printf("Starting synchronization with %s...\n", env.Config.Client.ServerURL)

			var result *sync.SyncResult
			if len(args) == 1 {
				result, err = env.Sync.SyncDocument(cmd.Context(), args[0])
			} else {
				result, err = env.Sync.Sync(cmd.Context())
			}
			if err != nil {
				return err
			}

			c.printSyncResult(result)
			return nil
		},
	}
}

func (c *Cli) printSyncResult(result *sync.SyncResult) {
	c.io.Println()
	c.io.Println("✓ Synchronization completed successfully!")
	c.io.Println()
	c.io.Printf("Pushed to hub:      %d document(s)\n", result.PushedDocuments)
	c.io.Printf("Pulled from hub:    %d document(s)\n", result.PulledDocuments)
	c.io.Printf("Merged locally:     %d document(s)\n", result.MergedDocuments)
	if result.CreatedDocuments > 0 {
		c.io.Printf("New from hub:       %d document(s)\n", result.CreatedDocuments)
	}
	if result.Conflicts > 0 {
		c.io.Printf("Conflicts resolved: %d\n", result.Conflicts)
	}
	if result.SkippedDocuments > 0 {
		c.io.Printf("Skipped (errors):   %d\n", result.SkippedDocuments)
	}
}

func (c *Cli) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show replica identity, pending changes and hub health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := c.environment(cmd)
			if err != nil {
				return err
			}

			replicaID, err := env.Store.ReplicaID(ctx)
			if err != nil {
				return err
			}

			c.io.Println("=== Replica Status ===")
			c.io.Println()
			c.io.Printf("Replica:  %s\n", replicaID)
			c.io.Printf("Database: %s\n", env.Config.Client.DBPath)
			c.io.Printf("Hub:      %s\n", env.Config.Client.ServerURL)
			if env.Config.Client.Encrypt {
				c.io.Println("Snapshots are encrypted")
			}

			// Ошибки ниже не прерывают вывод статуса
			health, err := env.API.Health(ctx)
			switch {
			case err != nil:
				c.io.Printf("Hub status: unreachable (%v)\n", err)
			default:
				c.io.Printf("Hub status: %s (replica %s, storage %s)\n", health.Status, health.ReplicaID, health.Storage)
			}

			pending, err := env.Sync.GetPendingSyncCount(ctx)
			if err != nil {
				c.io.Printf("\nWarning: Failed to get pending sync count: %v\n", err)
				return nil
			}

			c.io.Println()
			if pending > 0 {
				c.io.Printf("⚠️  Pending sync: %d document(s) changed since last sync\n", pending)
				c.io.Println("Run 'prefkeeper sync' to synchronize with the hub.")
			} else {
				c.io.Println("✓ All documents synchronized with the hub")
			}
			return nil
		},
	}
}
