package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fixlang/fixc/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "manage the on-disk elaboration cache (spec.md §2 step 6)",
	}
	cmd.AddCommand(newCacheClearCmd())
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "delete every cached elaboration, keeping the database file and schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.Open(path, "fixc-cache-clear")
			if err != nil {
				return fmt.Errorf("fixc: open cache: %w", err)
			}
			defer store.Close()
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Printf("cleared %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "fixc.cache", "sqlite elaboration cache path")
	return cmd
}
