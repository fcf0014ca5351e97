package main

import (
	"errors"
	"fmt"

	"github.com/SummerOfBitcoin/code-challenge-2024-Mirebella/node"
	"github.com/SummerOfBitcoin/code-challenge-2024-Mirebella/node/store"
	"github.com/spf13/cobra"
)

func newPoolCmd(_ *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Manage pool snapshots",
	}
	cmd.AddCommand(newPoolImportCmd())
	return cmd
}

func newPoolImportCmd() *cobra.Command {
	var dir, dbPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Snapshot a pool directory into a bbolt file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" || dbPath == "" {
				return usageError{errors.New("--dir and --db are required")}
			}
			pool, err := node.DirSource{Dir: dir}.LoadPool(cmd.Context())
			if err != nil {
				return err
			}
			db, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			n, err := db.ImportPool(cmd.Context(), pool)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d transactions into %s\n", n, dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "pool directory")
	cmd.Flags().StringVar(&dbPath, "db", "", "bbolt snapshot file")
	return cmd
}
