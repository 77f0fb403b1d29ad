package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexatlas/lexatlas/internal/intelligence/sections"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <clause text>",
		Short: "Classify a clause by type",
		Long:  "Label a clause as confidentiality, termination, payment, liability, intellectual_property, or governing_law, with a confidence score.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, sections.IdentifyClauseType(strings.Join(args, " ")))
		},
	}
}
