package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"surebet-scanner/internal/report"
)

// MaxMessageLength keeps each Telegram message under the API limit of 4096.
const MaxMessageLength = 3900

// Notification 封装一次扫描的告警内容。
type Notification struct {
	Report report.Report
	Limit  int
}

// Notifier 定义告警输送接口。
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// TelegramNotifier 通过 Telegram Bot API 推送消息。
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier 构造 Telegram 告警器。
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify 发送报告摘要，超长时按行拆分为多条消息。
func (n *TelegramNotifier) Notify(ctx context.Context, note Notification) error {
	chunks := Chunk(report.Summary(note.Report, note.Limit), MaxMessageLength)
	for i, text := range chunks {
		if err := n.send(ctx, text); err != nil {
			return fmt.Errorf("send chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}

	n.logger.Info().Str("sport", note.Report.Sport).
		Int("surebets", len(note.Report.Surebets)).
		Int("messages", len(chunks)).
		Msg("告警已发送 (Telegram)")
	return nil
}

// SendText posts a free-form message, chunked like Notify.
func (n *TelegramNotifier) SendText(ctx context.Context, text string) error {
	for _, chunk := range Chunk(text, MaxMessageLength) {
		if err := n.send(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	payload := map[string]any{
		"chat_id":                  n.chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram 响应码异常: %d", resp.StatusCode)
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		if !result.OK {
			return fmt.Errorf("telegram 返回 ok=false: %s", result.Description)
		}
	}
	return nil
}

// Chunk splits text on line boundaries into pieces of at most limit runes.
// A single line longer than limit is cut hard.
func Chunk(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageLength
	}
	var (
		chunks []string
		cur    []rune
	)
	flush := func() {
		if len(cur) > 0 {
			chunks = append(chunks, string(cur))
			cur = cur[:0]
		}
	}
	for _, line := range strings.Split(text, "\n") {
		r := []rune(line)
		for len(r) > limit {
			flush()
			chunks = append(chunks, string(r[:limit]))
			r = r[limit:]
		}
		extra := len(r)
		if len(cur) > 0 {
			extra++
		}
		if len(cur)+extra > limit {
			flush()
		}
		if len(cur) > 0 {
			cur = append(cur, '\n')
		}
		cur = append(cur, r...)
	}
	flush()
	return chunks
}

var _ Notifier = (*TelegramNotifier)(nil)
