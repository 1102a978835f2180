package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"surebet-scanner/internal/alerting"
	"surebet-scanner/internal/arbitrage"
	"surebet-scanner/internal/market"
	"surebet-scanner/internal/report"
)

// SimulateOptions describe a synthetic match for a test alert.
type SimulateOptions struct {
	Sport      string
	Home       string
	Away       string
	Odds       []float64
	Bookmakers []string
}

// SimulateAlert 用给定赔率构造一场比赛，走完检测流程并发送告警。
func (a *App) SimulateAlert(ctx context.Context, opts SimulateOptions) error {
	if !a.Config.Alerting.Enabled {
		return errors.New("alerting 未启用")
	}
	notifier := a.newNotifier()
	if notifier == nil {
		return errors.New("未配置任何告警通道")
	}

	r, err := a.simulatedReport(opts, time.Now().UTC())
	if err != nil {
		return err
	}
	return notifier.Notify(ctx, alerting.Notification{Report: r, Limit: a.Config.Alerting.SummaryLimit})
}

// simulatedReport prices the sport's first outcome group with opts.Odds.
func (a *App) simulatedReport(opts SimulateOptions, now time.Time) (report.Report, error) {
	profile, err := a.Config.Profile(opts.Sport)
	if err != nil {
		return report.Report{}, err
	}
	if len(profile.Groups) == 0 {
		return report.Report{}, fmt.Errorf("sport %s has no outcome groups", opts.Sport)
	}
	group := profile.Groups[0]
	if len(opts.Odds) != len(group.Labels) {
		return report.Report{}, fmt.Errorf("%s group %s needs %d odds, got %d", opts.Sport, group.Name, len(group.Labels), len(opts.Odds))
	}

	rec := market.MatchRecord{
		Participants: [2]string{opts.Home, opts.Away},
		Odds:         make(map[market.Label]market.Quote, len(opts.Odds)),
		Context:      market.MatchContext{PageIndex: 1, Time: now.Format("15:04")},
	}
	for i, l := range group.Labels {
		q := market.Quote{Value: opts.Odds[i]}
		if i < len(opts.Bookmakers) {
			q.Bookmaker = opts.Bookmakers[i]
		}
		rec.Odds[l] = q
	}

	matches := []market.MatchRecord{rec}
	opps := arbitrage.NewDetector(profile, a.Logger).Detect(matches)
	return report.Build(opts.Sport, "simulated", matches, opps, now), nil
}
