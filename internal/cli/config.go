package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := loadConfig(out)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Configuration is valid!")
			fmt.Fprintf(out, "  - LLM: %s (%s)\n", cfg.LLM.Provider, cfg.LLM.Model)
			fmt.Fprintf(out, "  - Batch size: %d\n", cfg.Pipeline.BatchSize)
			switch cfg.Storage.Backend {
			case "s3":
				fmt.Fprintf(out, "  - Storage: s3 (%s/%s)\n", cfg.Storage.S3.Endpoint, cfg.Storage.S3.Bucket)
			default:
				fmt.Fprintf(out, "  - Storage: %s (%s)\n", cfg.Storage.Backend, cfg.Storage.Dir)
			}
			fmt.Fprintf(out, "  - Server: %s\n", cfg.Server.Addr)

			return nil
		},
	}
}
