package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/example/frontdesk-log/internal/application"
	"github.com/example/frontdesk-log/internal/export"
)

func (a *app) report(ctx context.Context, args []string) error {
	fs := a.newFlagSet("report")
	days := fs.Int("days", int(a.reportDays), "window in days: 7, 30 or 90")
	by := fs.String("by", "", "show one grouping only: category, staff, priority or status")
	xlsx := fs.String("xlsx", "", "also write the report to this .xlsx workbook")
	if err := fs.Parse(args); err != nil {
		return err
	}

	window := application.ReportWindow(*days)
	if !window.Valid() {
		return usagef("report: --days must be 7, 30 or 90")
	}
	fields := application.GroupFields()
	if *by != "" {
		field := application.GroupField(strings.ToLower(*by))
		if !isGroupField(field) {
			return usagef("report: unknown --by %q", *by)
		}
		fields = []application.GroupField{field}
	}

	now := a.now()
	summary, err := application.SummarizeReport(a.logs.Entries(), now, window)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, a.ui.title.Render(fmt.Sprintf("Last %d days", window)))
	fmt.Fprintf(a.stdout, "%s %s since %s\n", humanize.Comma(int64(summary.Total)),
		plural(summary.Total, "entry", "entries"), summary.Cutoff.Format("Jan 2, 2006 15:04"))
	for _, field := range fields {
		fmt.Fprintln(a.stdout)
		fmt.Fprintln(a.stdout, a.ui.header.Render("By "+string(field)))
		fmt.Fprint(a.stdout, a.ui.bars(summaryBars(summary, field)))
	}

	if *xlsx == "" {
		return nil
	}
	if err := writeWorkbook(*xlsx, summary); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "\nWrote %s.\n", *xlsx)
	return nil
}

func writeWorkbook(path string, summary application.ReportSummary) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
	}()
	return export.WriteReport(f, summary)
}

func summaryBars(summary application.ReportSummary, field application.GroupField) []application.ReportBar {
	switch field {
	case application.GroupByCategory:
		return summary.ByCategory
	case application.GroupByStaff:
		return summary.ByStaff
	case application.GroupByPriority:
		return summary.ByPriority
	case application.GroupByStatus:
		return summary.ByStatus
	}
	return nil
}

func isGroupField(field application.GroupField) bool {
	for _, known := range application.GroupFields() {
		if field == known {
			return true
		}
	}
	return false
}
