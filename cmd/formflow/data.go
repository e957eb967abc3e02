package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newDataCmd(a *app) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Inspect or remove saved form answers",
	}
	cmd.PersistentFlags().StringVar(&key, "key", "", "record key (defaults to persistence.key)")

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the saved answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := a.openBackend()
			if err != nil {
				return err
			}
			if backend == nil {
				return errPersistenceDisabled
			}
			defer closeBackend(backend, a.logger)

			data, ok := a.newStore(backend, key).Load()
			if !ok {
				printf(cmd.ErrOrStderr(), "no saved form data\n")
				return nil
			}
			payload, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("encode saved data: %w", err)
			}
			printf(cmd.OutOrStdout(), "%s\n", payload)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the saved answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := a.openBackend()
			if err != nil {
				return err
			}
			if backend == nil {
				return errPersistenceDisabled
			}
			defer closeBackend(backend, a.logger)

			store := a.newStore(backend, key)
			store.Clear()
			printf(cmd.ErrOrStderr(), "cleared %s\n", store.Key())
			return nil
		},
	})
	return cmd
}
