package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pulse/internal/config"
)

const userAgent = "Pulse-Go/0.1.0"

// Event identifies a notifiable milestone.
type Event string

const (
	// EventRefreshCompleted fires after an agenda refresh run, successful
	// or degraded.
	EventRefreshCompleted Event = "refresh-completed"
	// EventSalesCompleted fires after a sales run stored its opportunities.
	EventSalesCompleted Event = "sales-completed"
	// EventError fires when a run fails outright.
	EventError Event = "error"
	// EventTest exercises the delivery path from `pulse config`.
	EventTest Event = "test"
)

// Payload carries event-specific fields referenced by the message templates.
type Payload map[string]string

// Service is the notification surface exposed to the daemon and CLI.
type Service interface {
	Publish(ctx context.Context, event Event, data Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:     topic,
		client:       &http.Client{Timeout: timeout},
		runSummaries: cfg.Notifications.RunSummaries,
		errors:       cfg.Notifications.Errors,
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	runSummaries bool
	errors       bool
}

func (n *ntfyService) Publish(ctx context.Context, event Event, data Payload) error {
	msg, ok := n.format(event, data)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

// format maps an event to an ntfy message. The second return is false for
// events suppressed by configuration or unknown events.
func (n *ntfyService) format(event Event, data Payload) (message, bool) {
	switch event {
	case EventRefreshCompleted:
		if !n.runSummaries {
			return message{}, false
		}
		body := fmt.Sprintf("📰 Agenda refreshed: %s signals from %s items",
			data.get("signals", "0"), data.get("items", "0"))
		if data.get("fallback", "") == "true" {
			body += " (deterministic digest)"
		}
		return message{
			title: "Pulse - Refresh Complete",
			body:  body,
			tags:  []string{"pulse", "refresh", "completed"},
		}, true
	case EventSalesCompleted:
		if !n.runSummaries {
			return message{}, false
		}
		return message{
			title: "Pulse - Sales Complete",
			body:  fmt.Sprintf("Sales run complete: %s opportunities stored", data.get("processed", "0")),
			tags:  []string{"pulse", "sales", "completed"},
		}, true
	case EventError:
		if !n.errors {
			return message{}, false
		}
		var builder strings.Builder
		builder.WriteString("❌ Error")
		if label := data.get("context", ""); label != "" {
			builder.WriteString(" with ")
			builder.WriteString(label)
		}
		builder.WriteString(": ")
		if detail := data.get("error", ""); detail != "" {
			builder.WriteString(detail)
		} else {
			builder.WriteString("unknown")
		}
		return message{
			title:    "Pulse - Error",
			body:     builder.String(),
			tags:     []string{"pulse", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "Pulse - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"pulse", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (p Payload) get(key, fallback string) string {
	if p == nil {
		return fallback
	}
	value := strings.TrimSpace(p[key])
	if value == "" {
		return fallback
	}
	return value
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
