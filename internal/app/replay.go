package app

import (
	"errors"

	"surebet-scanner/internal/report"
	"surebet-scanner/internal/service"
)

// Replay analyses captured page dumps offline: a single file, or every dump
// in a directory matching a pattern (index_*.txt by default).
func (a *App) Replay(opts ReplayOptions) error {
	if opts.File == "" && opts.Dir == "" {
		return errors.New("--file or --dir must be provided")
	}
	svc := service.New(a.Config, nil, nil, nil, a.Logger)

	var (
		r   report.Report
		err error
	)
	if opts.File != "" {
		r, err = svc.AnalyzeFile(opts.Sport, opts.File)
	} else {
		r, err = svc.ReplayDir(opts.Sport, opts.Dir, opts.Pattern)
	}
	if err != nil {
		return err
	}

	if opts.Write {
		paths, err := report.WriteFiles(a.Config.Output.Dir, r, a.Config.Output.Formats)
		if err != nil {
			return err
		}
		a.Logger.Info().Strs("files", paths).Msg("replay report written")
	}
	return a.printReport(r)
}
