package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	chart "github.com/wcharczuk/go-chart/v2"
)

// Output formats accepted by WriteFiles.
const (
	FormatText = "txt"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPNG  = "png"
)

// ErrNothingToPlot is returned by WritePNG for a report without surebets.
var ErrNothingToPlot = errors.New("no surebets to plot")

// WriteJSON encodes the report with indentation.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ReadJSON decodes a report written by WriteJSON.
func ReadJSON(rd io.Reader) (Report, error) {
	var r Report
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return Report{}, fmt.Errorf("decode report: %w", err)
	}
	return r, nil
}

// ReadJSONFile loads a report from disk.
func ReadJSONFile(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, err
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteCSV writes one row per surebet outcome.
func WriteCSV(w io.Writer, records []SurebetRecord) error {
	writer := csv.NewWriter(w)

	header := []string{"sport", "match", "time", "type", "margin_pct", "roi_pct", "label", "odds", "bookmaker", "stake", "total_stake", "abs_profit", "profit_pct_actual", "actionable", "category"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, s := range records {
		for _, o := range s.Outcomes {
			row := []string{
				s.Sport,
				s.Match,
				s.Time,
				s.Type,
				fixed2(s.MarginPct),
				fixed2(s.ROIPct),
				o.Label,
				strconv.FormatFloat(o.Odds, 'f', -1, 64),
				o.Bookmaker,
				fixed2(o.Stake),
				fixed2(s.TotalStake),
				fixed2(s.AbsProfit),
				fixed2(s.ProfitPctActual),
				strconv.FormatBool(s.Actionable),
				s.Category,
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// WritePNG renders a bar chart of surebet ROI.
func WritePNG(w io.Writer, r Report) error {
	if len(r.Surebets) == 0 {
		return ErrNothingToPlot
	}

	bars := make([]chart.Value, 0, len(r.Surebets))
	for _, s := range r.Surebets {
		bars = append(bars, chart.Value{
			Label: shorten(s.Type+" "+s.Match, 24),
			Value: s.ROIPct,
		})
	}

	pctFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f%%")
	}
	graph := chart.BarChart{
		Title:    fmt.Sprintf("%s surebets ROI", strings.ToUpper(r.Sport)),
		Width:    1280,
		Height:   720,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 48, Bottom: 24},
		},
		YAxis: chart.YAxis{
			Name:           "ROI (%)",
			ValueFormatter: pctFormatter,
		},
		Bars: bars,
	}
	return graph.Render(chart.PNG, w)
}

// WriteFiles writes the report in each format into dir and returns the paths.
// A PNG is skipped when there is nothing to plot.
func WriteFiles(dir string, r Report, formats []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	stamp := r.GeneratedAt.UTC().Format("20060102_150405")

	var paths []string
	for _, format := range formats {
		format = strings.ToLower(strings.TrimSpace(format))
		path := filepath.Join(dir, fmt.Sprintf("%s_surebets_%s.%s", r.Sport, stamp, format))

		var write func(io.Writer) error
		switch format {
		case FormatText:
			write = func(w io.Writer) error { return WriteText(w, r) }
		case FormatJSON:
			write = func(w io.Writer) error { return WriteJSON(w, r) }
		case FormatCSV:
			write = func(w io.Writer) error { return WriteCSV(w, r.Surebets) }
		case FormatPNG:
			if len(r.Surebets) == 0 {
				continue
			}
			write = func(w io.Writer) error { return WritePNG(w, r) }
		default:
			return paths, fmt.Errorf("unknown output format %q", format)
		}

		if err := writeFile(path, write); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func shorten(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit-1]) + "…"
}
