package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/splice/format"
	"github.com/dhamidi/splice/merge"
)

func newMergeCmd(a *app) *cobra.Command {
	var (
		overwrite bool
		output    string
		showDiff  bool
		showTree  bool
	)

	cmd := &cobra.Command{
		Use:   "merge <base> <candidate>",
		Short: "Merge a candidate .java file into a base file",
		Long: `Merge the declarations of a candidate .java file into a base file and
print the patched base to stdout.

Use "-" as the candidate to read it from stdin. Use -w to overwrite the
base file, or -o to write the result elsewhere. --diff prints a coloured
unified diff instead of the result; --tree re-prints the merged
declaration tree instead of patching the base text.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			basePath, candidatePath := args[0], args[1]
			base, err := readJava(cmd, basePath)
			if err != nil {
				return err
			}
			candidate, err := readJava(cmd, candidatePath)
			if err != nil {
				return err
			}

			result, err := merge.Merge(cmd.Context(), base, candidate,
				merge.WithPolicy(a.cfg.Merge),
				merge.WithNames(basePath, candidatePath),
			)
			if err != nil {
				return fmt.Errorf("merge: %w", err)
			}

			text := result.Text
			if showTree {
				text = []byte(format.Print(result.Tree))
			}

			if showDiff {
				w := format.NewDiffWriter(cmd.OutOrStdout())
				diff := format.UnifiedDiffNamed(basePath, basePath, string(base), string(text))
				if _, err := w.Write([]byte(diff)); err != nil {
					return err
				}
				return w.Flush()
			}

			switch {
			case overwrite:
				if !result.Changed() && !showTree {
					return nil
				}
				return writeFile(basePath, text)
			case output != "":
				return writeFile(output, text)
			}
			_, err = cmd.OutOrStdout().Write(text)
			return err
		},
	}

	cmd.Flags().BoolVarP(&overwrite, "write", "w", false, "overwrite the base file in place")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to this file")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a unified diff against the base")
	cmd.Flags().BoolVar(&showTree, "tree", false, "print the merged declaration tree instead of patching the base")
	cmd.MarkFlagsMutuallyExclusive("write", "output", "diff")

	return cmd
}
