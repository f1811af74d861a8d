package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pkg/errors"

	"github.com/madrasahbd/natija/core"
	"github.com/madrasahbd/natija/core/grading"
	"github.com/madrasahbd/natija/core/result"
)

// meritList prints the ranked results of a class on an exam, as JSON or as a table.
func (cli *commandLine) meritList(classID, examID int, tieBreak, lang string, asJSON bool) error {
	opts := cli.resultSvc.Defaults()
	if tieBreak != "" {
		if !result.IsTieBreak(tieBreak) {
			return core.NewValidationError(errors.Errorf("unknown tie-break %q", tieBreak))
		}
		opts.TieBreak = tieBreak
	}
	if lang != "" {
		opts.Locale = lang
	}

	results, err := cli.resultSvc.MeritList(context.Background(), classID, examID, opts)
	if err != nil {
		return errors.Wrap(err, "computing merit list")
	}

	if asJSON {
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(results), "encoding merit list")
	}
	return cli.renderMeritList(results, opts.Locale)
}

func (cli *commandLine) renderMeritList(results []result.StudentResult, locale string) error {
	table := tablewriter.NewTable(cli.out, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{
				PerColumn: []tw.Align{
					tw.AlignRight, tw.AlignRight, tw.AlignLeft, tw.AlignRight,
					tw.AlignRight, tw.AlignRight, tw.AlignLeft, tw.AlignRight,
				},
			},
		},
	}))
	table.Header("Rank", "Roll", "Name", "Total", "Max", "Average", "Grade", "Failed")
	for _, res := range results {
		if err := table.Append(
			res.RankDisplay,
			strconv.Itoa(res.RollNo),
			res.StudentName,
			formatMark(res.TotalObtained),
			formatMark(res.TotalMaxMarks),
			fmt.Sprintf("%.2f", res.AverageMarks),
			grading.Display(res.Grade, locale),
			strconv.Itoa(res.FailedSubjects),
		); err != nil {
			return errors.Wrap(err, "appending row")
		}
	}
	return errors.Wrap(table.Render(), "rendering table")
}

func formatMark(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
