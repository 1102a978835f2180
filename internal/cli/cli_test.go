package cli

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func TestVersionSkipsConfig(t *testing.T) {
	got := execute(t, "version")
	if !strings.HasPrefix(got, "surebet dev") {
		t.Fatalf("unexpected version output %q", got)
	}
}

func TestStakesAndSports(t *testing.T) {
	got := execute(t, "--config", "", "--log-level", "error", "stakes", "--odds", "2.10,3.95,4.20", "--total", "100", "--round", "1")
	if !strings.Contains(got, "ROI 3.36%") || !strings.Contains(got, "Total 100.00") {
		t.Fatalf("unexpected stakes output:\n%s", got)
	}

	got = execute(t, "sports")
	for _, sport := range []string{"football", "football-winner", "nfl"} {
		if !strings.Contains(got, sport) {
			t.Fatalf("sports output misses %s:\n%s", sport, got)
		}
	}
}
