package alerting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"surebet-scanner/internal/report"
)

func sampleReport(n int) report.Report {
	r := report.Report{Sport: "football", GeneratedAt: time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC), TotalMatches: 42}
	for i := 0; i < n; i++ {
		r.Surebets = append(r.Surebets, report.SurebetRecord{
			Sport:  "football",
			Match:  "Alpha FC vs Beta FC " + strings.Repeat("x", 300),
			Time:   "14:30",
			Type:   "1X2",
			ROIPct: 3.36,
			Outcomes: []report.Outcome{
				{Label: "Home", Odds: 2.10, Bookmaker: "Bet1", Stake: 49},
				{Label: "Draw", Odds: 3.95, Bookmaker: "Bet2", Stake: 26},
				{Label: "Away", Odds: 4.20, Bookmaker: "Bet3", Stake: 25},
			},
			Actionable: true,
		})
	}
	return r
}

func TestTelegramNotifierSuccess(t *testing.T) {
	var texts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/bottoken/sendMessage") {
			t.Fatalf("路径应包含 sendMessage, 实际 %s", r.URL.Path)
		}
		var received map[string]any
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("解析请求体失败: %v", err)
		}
		if received["chat_id"] != "chat" {
			t.Fatalf("chat_id 不正确: %#v", received)
		}
		texts = append(texts, received["text"].(string))
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	if err := notifier.Notify(context.Background(), Notification{Report: sampleReport(12)}); err != nil {
		t.Fatalf("Telegram Notify 应成功: %v", err)
	}

	if len(texts) < 2 {
		t.Fatalf("long summary should be split, got %d messages", len(texts))
	}
	for _, text := range texts {
		if n := len([]rune(text)); n > MaxMessageLength {
			t.Fatalf("message of %d runes exceeds limit", n)
		}
	}
	if !strings.HasPrefix(texts[0], "FOOTBALL surebets report") {
		t.Fatalf("unexpected first message %q", texts[0][:40])
	}
}

func TestTelegramNotifierError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "description": "chat not found"})
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	err := notifier.Notify(context.Background(), Notification{Report: sampleReport(1)})
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("ok=false 应报错, got %v", err)
	}

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()
	notifier = NewTelegramNotifier("token", "chat", bad.URL, time.Second, testLogger())
	if err := notifier.SendText(context.Background(), "hello"); err == nil {
		t.Fatal("502 应报错")
	}
}

func TestChunk(t *testing.T) {
	if got := Chunk("a\nb\nc", 3); len(got) != 2 || got[0] != "a\nb" || got[1] != "c" {
		t.Fatalf("unexpected chunks %q", got)
	}
	if got := Chunk(strings.Repeat("z", 7), 3); len(got) != 3 || got[2] != "z" {
		t.Fatalf("long line should be cut hard, got %q", got)
	}
	if got := Chunk("short", 0); len(got) != 1 || got[0] != "short" {
		t.Fatalf("unexpected chunks %q", got)
	}
	if got := Chunk("", 10); len(got) != 0 {
		t.Fatalf("empty text should give no chunks, got %q", got)
	}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
