package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/arr-planner/internal/arrplanner"
	"github.com/iwvelando/arr-planner/pkg/constants"
	"github.com/iwvelando/arr-planner/pkg/format"
	"github.com/iwvelando/arr-planner/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorAccent = lipgloss.Color("#3AA99F")
	colorText   = lipgloss.Color("#FFFCF0")
	colorWarn   = lipgloss.Color("#DA702C")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	dimStyle    = lipgloss.NewStyle().Foreground(colorBorder)
	valueStyle  = lipgloss.NewStyle().Foreground(colorText)
	warnStyle   = lipgloss.NewStyle().Foreground(colorWarn)
)

// Write renders results in the named format.
func Write(w io.Writer, outputFormat string, results []Result) error {
	switch outputFormat {
	case constants.OutputFormatPretty, "":
		return PrettyFormat(w, results)
	case constants.OutputFormatCSV:
		return CsvFormat(w, results)
	case constants.OutputFormatJSON:
		return JSONFormat(w, results)
	}
	return fmt.Errorf("unsupported output format '%s'", outputFormat)
}

// PrettyFormat outputs a human-readable funnel table per result.
func PrettyFormat(w io.Writer, results []Result) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	for i, r := range results {
		in := r.Effective
		scenario := arrplanner.Lookup(r.State.Scenario)

		b.WriteString(titleStyle.Render(fmt.Sprintf("ARR reality check - %s scenario", scenario.Label)))
		b.WriteString("\n")
		b.WriteString(p.Sprintf("  ARR target %s over %.0f months at %s/month\n",
			format.Currency(in.ARRTarget), in.Months, format.Currency(in.MonthlyPrice)))
		b.WriteString(fmt.Sprintf("  Conversion: exposure->visit %s%%, visit->trial %s%%, trial->paid %s%%\n\n",
			format.Percent(in.Rates.ExposureToVisit),
			format.Percent(in.Rates.VisitToTrial),
			format.Percent(in.Rates.TrialToPaid)))

		rows := [][]string{}
		for _, s := range arrplanner.Stages(r.Outputs) {
			rows = append(rows, []string{s.Label, format.Compact(s.Total), format.Compact(s.PerMonth)})
		}
		b.WriteString(renderTable([]string{"Stage", "Total", "Per month"}, rows))

		summary := valueStyle.Render(r.Summary)
		if !mathutil.IsFinite(r.Outputs.VisitsPerMonth) {
			summary = warnStyle.Render(r.Summary)
		}
		b.WriteString("  " + summary + "\n")
		b.WriteString("  " + dimStyle.Render("?"+r.State.Encode()) + "\n")

		if i < len(results)-1 {
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// renderTable draws a rounded box table. The first column is left aligned and
// the rest are right aligned.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	rule := func(left, mid, right string) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return dimStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
	}
	line := func(cells []string, style lipgloss.Style) string {
		var b strings.Builder
		b.WriteString(dimStyle.Render("│"))
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", w-lipgloss.Width(cell))
			if i == 0 {
				b.WriteString(style.Render(" " + cell + pad + " "))
			} else {
				b.WriteString(style.Render(" " + pad + cell + " "))
			}
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder
	b.WriteString(rule("╭", "┬", "╮"))
	b.WriteString(line(headers, headerStyle))
	b.WriteString(rule("├", "┼", "┤"))
	for _, row := range rows {
		b.WriteString(line(row, valueStyle))
	}
	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

// CsvFormat outputs one row per funnel stage with a total and per month
// column pair for every result. Infinite volumes are written as "inf".
func CsvFormat(w io.Writer, results []Result) error {
	if len(results) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)
	header := []string{"stage"}
	for _, r := range results {
		name := string(r.State.Scenario)
		header = append(header, fmt.Sprintf("total (%s)", name), fmt.Sprintf("per month (%s)", name))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	// every result has the same stage layout
	stageCount := len(arrplanner.Stages(results[0].Outputs))
	for i := 0; i < stageCount; i++ {
		var record []string
		for j, r := range results {
			s := arrplanner.Stages(r.Outputs)[i]
			if j == 0 {
				record = append(record, s.Key)
			}
			record = append(record, csvNumber(s.Total), csvNumber(s.PerMonth))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvNumber(v float64) string {
	if !mathutil.IsFinite(v) {
		return "inf"
	}
	return format.Fixed(v, 2)
}

// JSONFormat outputs an indented array of Documents.
func JSONFormat(w io.Writer, results []Result) error {
	docs := make([]Document, 0, len(results))
	for _, r := range results {
		docs = append(docs, NewDocument(r))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}
