package cli

import (
	"github.com/spf13/cobra"

	"github.com/lexatlas/lexatlas/internal/intelligence/citex"
	"github.com/lexatlas/lexatlas/internal/intelligence/compare"
	"github.com/lexatlas/lexatlas/internal/intelligence/sections"
)

func newCompareCmd() *cobra.Command {
	var (
		provision string
		asWhole   bool
	)

	cmd := &cobra.Command{
		Use:   "compare <file1> <file2>",
		Short: "Compare two documents section by section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text1, err := readDocument(args[0])
			if err != nil {
				return err
			}
			text2, err := readDocument(args[1])
			if err != nil {
				return err
			}

			if asWhole {
				return printJSON(cmd, compare.NewWholeDocComparator(citex.NewExtractor()).Compare(text1, text2))
			}

			comparator := compare.NewComparator(sections.NewExtractor())
			if provision != "" {
				return printJSON(cmd, comparator.CompareProvision(text1, text2, provision))
			}
			return printJSON(cmd, comparator.Compare(text1, text2))
		},
	}

	cmd.Flags().StringVar(&provision, "provision", "", "compare only the named provision")
	cmd.Flags().BoolVar(&asWhole, "whole", false, "whole-document similarity, diff, and shared citations")
	return cmd
}
