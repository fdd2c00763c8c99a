// Package notify delivers report notifications to configured providers.
// SMTP is deliberately not implemented here; mail delivery belongs to an
// external collaborator behind a webhook or relay.
package notify

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	apperrors "backupwatch/internal/errors"
	"backupwatch/internal/logging"
)

// Provider defines one notification channel.
type Provider struct {
	Type     string            `json:"type"` // "webhook" or "log"
	Enabled  bool              `json:"enabled"`
	Settings map[string]string `json:"settings,omitempty"`
}

// Config defines notification settings.
type Config struct {
	Enabled   bool                `json:"enabled"`
	Providers map[string]Provider `json:"providers,omitempty"`

	// MaxPerHour caps outbound notifications; 0 disables the cap.
	MaxPerHour int `json:"max_per_hour,omitempty"`
}

// IsEnabled returns true if notifications are enabled (nil-safe).
func (c *Config) IsEnabled() bool {
	return c != nil && c.Enabled
}

// AddProvider registers a provider and enables notifications (nil-safe).
func (c *Config) AddProvider(id string, p Provider) {
	if c == nil {
		return
	}
	if c.Providers == nil {
		c.Providers = make(map[string]Provider)
	}
	c.Providers[id] = p
	c.Enabled = true
}

// Notifier delivers a subject/body pair to a channel.
type Notifier interface {
	Send(subject, body string) error
}

// New builds a notifier fanning out to every enabled provider, wrapped
// in a rate limiter when MaxPerHour is set. Returns ErrNoProviders when
// nothing is enabled.
func New(cfg *Config) (Notifier, error) {
	if !cfg.IsEnabled() {
		return nil, apperrors.ErrNoProviders
	}

	ids := make([]string, 0, len(cfg.Providers))
	for id := range cfg.Providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var senders []Notifier
	for _, id := range ids {
		p := cfg.Providers[id]
		if !p.Enabled {
			continue
		}
		switch p.Type {
		case "webhook":
			url := p.Settings["url"]
			if url == "" {
				return nil, fmt.Errorf("provider %s: webhook url not set", id)
			}
			senders = append(senders, NewWebhook(url, 0))
		case "log":
			senders = append(senders, LogNotifier{})
		default:
			return nil, fmt.Errorf("provider %s: unknown type %q", id, p.Type)
		}
	}
	if len(senders) == 0 {
		return nil, apperrors.ErrNoProviders
	}

	var n Notifier = multi(senders)
	if cfg.MaxPerHour > 0 {
		n = RateLimited(n, cfg.MaxPerHour)
	}
	return n, nil
}

// multi fans a send out to all providers; the first failure wins but
// every provider is attempted.
type multi []Notifier

func (m multi) Send(subject, body string) error {
	var firstErr error
	for _, n := range m {
		if err := n.Send(subject, body); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// LogNotifier writes notifications to the structured log. Useful as a
// provider in air-gapped setups and in tests.
type LogNotifier struct{}

func (LogNotifier) Send(subject, body string) error {
	logging.L().Info("notification",
		zap.String("subject", subject), zap.String("body", body))
	return nil
}
