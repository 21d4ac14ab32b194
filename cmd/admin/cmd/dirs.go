package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/templui/profiledesk/internal/storage"
)

// DirsCmd creates the local upload folders ahead of the first request.
func DirsCmd(load LoadConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "dirs",
		Short: "Create the upload directories for local storage",
		RunE: func(c *cobra.Command, args []string) error {
			cfg := load()
			if cfg.StorageDriver != "local" {
				return fmt.Errorf("dirs needs STORAGE_DRIVER=local, got %q", cfg.StorageDriver)
			}

			local, err := storage.NewLocalStorage(cfg.UploadsPath, "/uploads", storage.ProfileFolder, storage.CertificateFolder)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.OutOrStdout(), "upload directories ready under %s\n", local.Root())
			return nil
		},
	}
}
