package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/splice/merge"
)

const planTextWidth = 40

type plan struct {
	Decisions []merge.Record `json:"decisions" yaml:"decisions"`
	Edits     []planEdit     `json:"edits" yaml:"edits"`
}

type planEdit struct {
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	Text  string `json:"text" yaml:"text"`
}

func newPlanCmd(a *app) *cobra.Command {
	var (
		planFormat string
		showAll    bool
	)

	cmd := &cobra.Command{
		Use:   "plan <base> <candidate>",
		Short: "Show the decisions and edits a merge would make",
		Long: `Run a merge without writing anything and list its decisions and the
text edits synthesized from them.

Decisions that leave a base declaration as it is are hidden unless --all
is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := readJava(cmd, args[0])
			if err != nil {
				return err
			}
			candidate, err := readJava(cmd, args[1])
			if err != nil {
				return err
			}

			result, err := merge.Merge(cmd.Context(), base, candidate,
				merge.WithPolicy(a.cfg.Merge),
				merge.WithNames(args[0], args[1]),
			)
			if err != nil {
				return fmt.Errorf("merge: %w", err)
			}

			p := plan{Decisions: []merge.Record{}, Edits: []planEdit{}}
			for _, d := range result.Decisions {
				if d.Action == merge.Leave && !showAll {
					continue
				}
				p.Decisions = append(p.Decisions, d.Record())
			}
			for _, e := range result.Edits {
				p.Edits = append(p.Edits, planEdit{Start: e.Start, End: e.End, Text: e.Text})
			}

			out := cmd.OutOrStdout()
			switch planFormat {
			case "table":
				fmt.Fprintln(out, renderDecisions(p.Decisions))
				fmt.Fprintln(out, renderEdits(p.Edits))
				return nil
			case "json":
				data, err := json.MarshalIndent(p, "", "  ")
				if err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(p); err != nil {
					return fmt.Errorf("encode yaml: %w", err)
				}
				return enc.Close()
			}
			return fmt.Errorf("unknown format: %s (expected table, json, or yaml)", planFormat)
		},
	}

	cmd.Flags().StringVarP(&planFormat, "format", "f", "table", "output format (table, json, yaml)")
	cmd.Flags().BoolVar(&showAll, "all", false, "include decisions that leave declarations unchanged")

	return cmd
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	return tbl
}

func renderDecisions(records []merge.Record) string {
	tbl := newTable()
	tbl.SetTitle("Decisions")
	tbl.AppendHeader(table.Row{"#", "Action", "Target", "Signature", "Span", "Text"})
	for i, r := range records {
		tbl.AppendRow(table.Row{i + 1, r.Action, r.Target, r.Signature, r.Span, preview(r.Text)})
	}
	tbl.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d", len(records))})
	return tbl.Render()
}

func renderEdits(edits []planEdit) string {
	tbl := newTable()
	tbl.SetTitle("Edits")
	tbl.AppendHeader(table.Row{"#", "Start", "End", "Text"})
	for i, e := range edits {
		tbl.AppendRow(table.Row{i + 1, e.Start, e.End, preview(e.Text)})
	}
	tbl.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d", len(edits))})
	return tbl.Render()
}

// preview shows text on one line, cut to planTextWidth runes.
func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if r := []rune(text); len(r) > planTextWidth {
		return string(r[:planTextWidth-1]) + "…"
	}
	return text
}
