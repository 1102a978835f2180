package app

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"surebet-scanner/internal/report"
)

// Export renders a saved JSON report as CSV and/or a PNG chart.
func (a *App) Export(opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}
	r, err := report.ReadJSONFile(opts.Input)
	if err != nil {
		return err
	}
	r.Surebets = r.Filter(opts.MinROI)
	if len(r.Surebets) == 0 {
		a.Logger.Info().Str("input", opts.Input).Msg("no surebets to export")
		return nil
	}
	a.Logger.Info().Int("surebets", len(r.Surebets)).Msg("exporting surebets")

	if opts.CSVPath != "" {
		if err := writeTo(opts.CSVPath, func(w io.Writer) error { return report.WriteCSV(w, r.Surebets) }); err != nil {
			return err
		}
	}
	if opts.PNGPath != "" {
		if err := writeTo(opts.PNGPath, func(w io.Writer) error { return report.WritePNG(w, r) }); err != nil {
			return err
		}
	}
	return nil
}

func writeTo(path string, write func(io.Writer) error) error {
	if err := ensureDir(path); err != nil {
		return err
	}
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

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
