// Package alert formats alerts into channel-specific payloads and performs
// a single delivery attempt per channel. Failures are reported, never
// retried or queued.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	logger "log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	"github.com/SolTwizzy/chainpulse/internal/metrics"
)

type ChannelType string

const (
	ChannelWebhook  ChannelType = "webhook"
	ChannelDiscord  ChannelType = "discord"
	ChannelTelegram ChannelType = "telegram"
)

// ChannelConfig is one delivery destination, supplied by the hosting
// process at construction time.
type ChannelConfig struct {
	Name       string      `yaml:"name"`
	Type       ChannelType `yaml:"type"`
	WebhookURL string      `yaml:"webhook_url"`
	BotToken   string      `yaml:"bot_token"`
	ChatID     string      `yaml:"chat_id"`
}

// Result is the structured outcome of one delivery attempt.
type Result struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode,omitempty"`
	Error      string `json:"error,omitempty"`
}

type Dispatcher struct {
	httpClient *http.Client
	log        *logger.Logger

	// telegram bots are cached per token; construction skips getMe so no
	// network happens until the first send
	botMu sync.Mutex
	bots  map[string]*bot.Bot
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		bots:       make(map[string]*bot.Bot),
		log:        logger.Default().With("component", "dispatcher"),
	}
}

// Send formats the alert for the channel and attempts delivery once.
func (d *Dispatcher) Send(ctx context.Context, a domain.Alert, ch ChannelConfig) Result {
	var res Result
	switch ch.Type {
	case ChannelDiscord:
		res = d.post(ctx, ch.WebhookURL, discordPayload(a))
	case ChannelTelegram:
		res = d.sendTelegram(ctx, a, ch)
	case ChannelWebhook:
		res = d.post(ctx, ch.WebhookURL, a)
	default:
		res = Result{Error: fmt.Sprintf("unknown channel type %q", ch.Type)}
	}

	outcome := "ok"
	if !res.Success {
		outcome = "failed"
		d.log.Warn("alert delivery failed",
			"channel", ch.Name, "type", ch.Type, "status", res.StatusCode, "error", res.Error)
	}
	metrics.AlertsDispatched.WithLabelValues(string(ch.Type), outcome).Inc()
	return res
}

func (d *Dispatcher) post(ctx context.Context, url string, payload any) Result {
	if url == "" {
		return Result{Error: "webhook url not configured"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Error: fmt.Sprintf("marshal payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return Result{Error: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return Result{Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{StatusCode: resp.StatusCode, Error: string(respBody)}
	}
	return Result{Success: true, StatusCode: resp.StatusCode}
}

func (d *Dispatcher) sendTelegram(ctx context.Context, a domain.Alert, ch ChannelConfig) Result {
	if ch.BotToken == "" || ch.ChatID == "" {
		return Result{Error: "telegram bot token and chat id are required"}
	}

	b, err := d.telegramBot(ch.BotToken)
	if err != nil {
		return Result{Error: fmt.Sprintf("telegram bot: %v", err)}
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    ch.ChatID,
		Text:      telegramText(a),
		ParseMode: models.ParseModeMarkdown,
	})
	if err != nil {
		return Result{Error: err.Error()}
	}
	return Result{Success: true}
}

func (d *Dispatcher) telegramBot(token string) (*bot.Bot, error) {
	d.botMu.Lock()
	defer d.botMu.Unlock()

	if b, ok := d.bots[token]; ok {
		return b, nil
	}
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, err
	}
	d.bots[token] = b
	return b, nil
}

// severityColors are Discord embed colors per severity.
var severityColors = map[domain.Severity]int{
	domain.SeverityInfo:     3447003,  // blue
	domain.SeverityWarning:  16776960, // yellow
	domain.SeverityCritical: 15158332, // red
}

func discordPayload(a domain.Alert) map[string]any {
	embed := map[string]any{
		"title":       a.Title,
		"description": a.Message,
		"color":       severityColors[a.Severity],
		"timestamp":   a.Timestamp.UTC().Format(time.RFC3339),
	}

	if len(a.Data) > 0 {
		fields := make([]map[string]any, 0, len(a.Data))
		for _, key := range sortedKeys(a.Data) {
			fields = append(fields, map[string]any{
				"name":   key,
				"value":  fmt.Sprint(a.Data[key]),
				"inline": true,
			})
		}
		embed["fields"] = fields
	}

	return map[string]any{"embeds": []any{embed}}
}

func telegramText(a domain.Alert) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "*%s*\n\n%s", a.Title, a.Message)
	for _, key := range sortedKeys(a.Data) {
		fmt.Fprintf(&buf, "\n`%s`: %v", key, a.Data[key])
	}
	return buf.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
