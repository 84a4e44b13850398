package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kavirubc/tplcheck/internal/criteria"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [text]",
		Short: "Report whether text follows the template (yes/no)",
		Long:  `Runs the keyword classifier on the given text, or on stdin when no argument is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			}

			fmt.Fprintln(cmd.OutOrStdout(), criteria.Classify(text))
			return nil
		},
	}
}
