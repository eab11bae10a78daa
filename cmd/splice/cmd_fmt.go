package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/splice/format"
	"github.com/dhamidi/splice/java/parser"
)

func newFmtCmd(a *app) *cobra.Command {
	var fmtOverwrite bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Re-print a .java file through the declaration printer",
		Long: `Re-print a .java file to stdout with one declaration per line group and
uniform indentation. Method bodies and initializers are kept as written.

If no file is provided, reads Java source from stdin.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := "-"
			if len(args) == 1 {
				filename = args[0]
			}
			if fmtOverwrite && filename == "-" {
				return fmt.Errorf("-w requires a file argument")
			}

			source, err := readJava(cmd, filename)
			if err != nil {
				return err
			}
			unit, err := parser.Parse(filename, source)
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}
			output := format.Print(unit)

			if fmtOverwrite {
				return writeFile(filename, []byte(output))
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
