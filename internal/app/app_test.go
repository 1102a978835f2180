package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"surebet-scanner/internal/config"
	"surebet-scanner/internal/report"
)

func testApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "app:\n  env_file: \"\"\noutput:\n  dir: " + t.TempDir() + "\n  formats: [json]\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	a := NewApp(cfg, zerolog.Nop())
	var out bytes.Buffer
	a.Out = &out
	return a, &out
}

func TestStakes(t *testing.T) {
	a, out := testApp(t)
	err := a.Stakes(StakesOptions{Odds: []float64{2.10, 3.95, 4.20}, Bookmakers: []string{"Bet1"}, Total: 100, RoundTo: 1})
	if err != nil {
		t.Fatalf("stakes: %v", err)
	}
	got := out.String()
	for _, want := range []string{"SUREBET", "ROI 3.36%", "Home", "49.00", "AUTO", "Total 100.00"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}

	out.Reset()
	if err := a.Stakes(StakesOptions{Odds: []float64{1.90, 1.90}}); err != nil {
		t.Fatalf("stakes: %v", err)
	}
	if !strings.HasPrefix(out.String(), "No surebet") {
		t.Fatalf("expected no surebet, got %q", out.String())
	}

	out.Reset()
	if err := a.Stakes(StakesOptions{Odds: []float64{2.02, 2.00}, Total: 100, RoundTo: 50}); err != nil {
		t.Fatalf("stakes: %v", err)
	}
	if !strings.Contains(out.String(), "Not actionable") {
		t.Fatalf("expected not actionable, got %q", out.String())
	}

	if err := a.Stakes(StakesOptions{Odds: []float64{2.5}}); err == nil {
		t.Fatalf("single odds should fail")
	}
}

func TestSimulatedReport(t *testing.T) {
	a, _ := testApp(t)
	now := time.Date(2025, 3, 12, 18, 30, 0, 0, time.UTC)
	r, err := a.simulatedReport(SimulateOptions{Sport: "tennis", Home: "Player One", Away: "Player Two", Odds: []float64{2.10, 2.05}}, now)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if len(r.Surebets) != 1 || r.Surebets[0].Match != "Player One vs Player Two" || r.Surebets[0].Time != "18:30" {
		t.Fatalf("unexpected simulated report %+v", r.Surebets)
	}
	if _, err := a.simulatedReport(SimulateOptions{Sport: "football", Odds: []float64{2}}, now); err == nil {
		t.Fatalf("odds count mismatch should fail")
	}
	if err := a.SimulateAlert(context.Background(), SimulateOptions{Sport: "tennis"}); err == nil {
		t.Fatalf("alerting disabled should fail")
	}
}

func TestShowAndExport(t *testing.T) {
	a, out := testApp(t)
	r, err := a.simulatedReport(SimulateOptions{Sport: "football", Home: "Alpha FC", Away: "Beta FC", Odds: []float64{2.10, 3.95, 4.20}}, time.Now().UTC())
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	dir := t.TempDir()
	input := filepath.Join(dir, "football.json")
	if err := writeTo(input, func(w io.Writer) error { return report.WriteJSON(w, r) }); err != nil {
		t.Fatalf("write json: %v", err)
	}

	if err := a.Show(ShowOptions{Input: input}); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out.String(), "Alpha FC vs Beta FC") || !strings.Contains(out.String(), "3.36") {
		t.Fatalf("unexpected show output:\n%s", out.String())
	}
	out.Reset()
	if err := a.Show(ShowOptions{Input: input, Matches: true}); err != nil {
		t.Fatalf("show matches: %v", err)
	}
	if !strings.Contains(out.String(), "Home=2.10") {
		t.Fatalf("unexpected matches output:\n%s", out.String())
	}

	csvPath := filepath.Join(dir, "out", "surebets.csv")
	pngPath := filepath.Join(dir, "out", "roi.png")
	if err := a.Export(ExportOptions{Input: input, CSVPath: csvPath, PNGPath: pngPath}); err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, p := range []string{csvPath, pngPath} {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Fatalf("expected %s to be written: %v", p, err)
		}
	}
	if err := a.Export(ExportOptions{Input: input}); err == nil {
		t.Fatalf("export without targets should fail")
	}
}

func TestReplay(t *testing.T) {
	a, out := testApp(t)
	dir := t.TempDir()
	dump := "14:30\nAlpha FC\nBeta FC\n2.10Bet1\n3.95Bet2\n4.20Bet3\n"
	if err := os.WriteFile(filepath.Join(dir, "index_1.txt"), []byte(dump), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := a.Replay(ReplayOptions{Sport: "football", Dir: dir, Write: true}); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !strings.Contains(out.String(), "FOOTBALL Surebets") || !strings.Contains(out.String(), "Alpha FC vs Beta FC") {
		t.Fatalf("unexpected replay output:\n%s", out.String())
	}
	written, _ := filepath.Glob(filepath.Join(a.Config.Output.Dir, "football_surebets_*.json"))
	if len(written) != 1 {
		t.Fatalf("expected one written report, got %v", written)
	}
	if err := a.Replay(ReplayOptions{Sport: "football"}); err == nil {
		t.Fatalf("replay without input should fail")
	}
}
