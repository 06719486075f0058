package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"attrlex/internal/driver"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the token cache",
	}
	cmd.PersistentFlags().String("cache-dir", "", "token cache directory (default: from attrlex.toml or $XDG_CACHE_HOME/attrlex)")

	cmd.AddCommand(&cobra.Command{
		Use:   "dir",
		Short: "Print the token cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := openCache(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Dir())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached token stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := openCache(cmd)
			if err != nil {
				return err
			}
			if err := c.DropAll(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", c.Dir())
			}
			return nil
		},
	})
	return cmd
}

func openCache(cmd *cobra.Command) (*driver.TokenCache, error) {
	dir, _ := cmd.Flags().GetString("cache-dir")
	if dir == "" {
		cfg, err := loadConfig(cmd, ".")
		if err != nil {
			return nil, err
		}
		dir = cfg.Cache.Dir
	}
	c, err := driver.OpenTokenCache(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open token cache: %w", err)
	}
	return c, nil
}
