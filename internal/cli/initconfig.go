package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jenian/langkeys/internal/config"
	"github.com/spf13/cobra"
)

func newInitConfigCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Create a " + config.FileName + " file",
		Long:  "Creates a " + config.FileName + " file with the default configuration in the current directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := filepath.Join(dir, config.FileName)

			// Check if file already exists
			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("%s already exists", configPath)
			}

			if err := os.WriteFile(configPath, []byte(config.Template), 0644); err != nil {
				return fmt.Errorf("failed to create %s: %w", config.FileName, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to create the file in")
	return cmd
}
