package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrewpaige1/codementor-api/config"
)

// resetCacheCmd represents the reset-cache command
var resetCacheCmd = &cobra.Command{
	Use:   "reset-cache",
	Short: "Remove cached explanations, translations and audio",
	Long: `The 'reset-cache' command removes every cached explanation, translation and
synthesized audio clip from the database cache. With --expired-only only entries
older than the cache TTL are removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		expiredOnly, _ := cmd.Flags().GetBool("expired-only")
		return runResetCache(cmd, expiredOnly)
	},
}

func init() {
	resetCacheCmd.Flags().Bool("expired-only", false, "Only remove entries older than the cache TTL")
	rootCmd.AddCommand(resetCacheCmd)
}

func runResetCache(cmd *cobra.Command, expiredOnly bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Cache.Backend == "memory" {
		fmt.Fprintln(cmd.OutOrStdout(), "The memory cache lives inside the server process; nothing to reset.")
		return nil
	}

	db, err := config.Connect(cfg.Database)
	if err != nil {
		return err
	}
	c, err := newCache(cfg, db)
	if err != nil {
		return err
	}

	var removed int64
	if expiredOnly {
		removed, err = c.PurgeExpired(cmd.Context())
	} else {
		removed, err = c.Clear(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("error resetting cache: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cache entries.\n", removed)
	return nil
}
