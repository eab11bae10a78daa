package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/splice/format"
	"github.com/dhamidi/splice/java/parser"
)

func newDumpCmd(a *app) *cobra.Command {
	var (
		dumpFormat string
		positions  bool
	)

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Dump the declaration tree of a .java file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := readJava(cmd, filename)
			if err != nil {
				return err
			}

			unit, err := parser.Parse(filename, data)
			if err != nil {
				return fmt.Errorf("parse java file: %w", err)
			}

			out := cmd.OutOrStdout()
			if dumpFormat == "tree" && positions {
				return format.NewTreeEncoder(out).WithPositions().Encode(unit)
			}
			enc, ok := format.NewEncoder(dumpFormat, out)
			if !ok {
				return fmt.Errorf("unknown format: %s (expected %s)", dumpFormat, strings.Join(format.Encoders, ", "))
			}
			if err := enc.Encode(unit); err != nil {
				return fmt.Errorf("encode %s: %w", dumpFormat, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "tree", "output format ("+strings.Join(format.Encoders, ", ")+")")
	cmd.Flags().BoolVar(&positions, "positions", false, "include byte spans in tree output")

	return cmd
}
