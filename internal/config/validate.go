package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGateway(); err != nil {
		return err
	}
	if err := c.validateFeeds(); err != nil {
		return err
	}
	if err := c.validateCuration(); err != nil {
		return err
	}
	if err := c.validateAgenda(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGateway() error {
	parsed, err := url.Parse(c.Gateway.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("gateway.base_url %q is not a valid URL", c.Gateway.BaseURL)
	}
	return nil
}

func (c *Config) validateFeeds() error {
	if len(c.Feeds.Sources) == 0 {
		return errors.New("feeds.sources must include at least one feed URL")
	}
	for _, source := range c.Feeds.Sources {
		parsed, err := url.Parse(source)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("feeds.sources entry %q is not a valid URL", source)
		}
	}
	if c.Feeds.MaxPerFeed > c.Feeds.MaxItems {
		return errors.New("feeds.max_per_feed must not exceed feeds.max_items")
	}
	return nil
}

func (c *Config) validateCuration() error {
	if err := ensurePositiveMap(map[string]int{
		"curation.max_generator_items": c.Curation.MaxGeneratorItems,
		"curation.signal_count_min":    c.Curation.SignalCountMin,
		"curation.signal_count_max":    c.Curation.SignalCountMax,
		"curation.merged_signal_cap":   c.Curation.MergedSignalCap,
		"curation.min_hook_length":     c.Curation.MinHookLength,
	}); err != nil {
		return err
	}
	if c.Curation.SignalCountMax < c.Curation.SignalCountMin {
		return errors.New("curation.signal_count_max must be >= curation.signal_count_min")
	}
	for i, rule := range c.Curation.SafetyRules {
		if err := validateRule("curation.safety_rule", i, rule); err != nil {
			return err
		}
	}
	for i, rule := range c.Curation.DropRules {
		if err := validateRule("curation.drop_rule", i, rule); err != nil {
			return err
		}
	}
	for i, rule := range c.Curation.IntentRules {
		if strings.TrimSpace(rule.Pattern) == "" {
			return fmt.Errorf("curation.intent_rule[%d].pattern must be set", i)
		}
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			return fmt.Errorf("curation.intent_rule[%d].pattern: %w", i, err)
		}
		if strings.TrimSpace(rule.Intent) == "" {
			return fmt.Errorf("curation.intent_rule[%d].intent must be set", i)
		}
		if rule.Weight <= 0 {
			return fmt.Errorf("curation.intent_rule[%d].weight must be positive", i)
		}
	}
	return nil
}

func validateRule(section string, index int, rule Rule) error {
	if strings.TrimSpace(rule.Pattern) == "" {
		return fmt.Errorf("%s[%d].pattern must be set", section, index)
	}
	if _, err := regexp.Compile(rule.Pattern); err != nil {
		return fmt.Errorf("%s[%d].pattern: %w", section, index, err)
	}
	if strings.TrimSpace(rule.Reason) == "" {
		return fmt.Errorf("%s[%d].reason must be set", section, index)
	}
	return nil
}

func (c *Config) validateAgenda() error {
	if c.Agenda.Latitude < -90 || c.Agenda.Latitude > 90 {
		return errors.New("agenda.latitude must be between -90 and 90")
	}
	if c.Agenda.Longitude < -180 || c.Agenda.Longitude > 180 {
		return errors.New("agenda.longitude must be between -180 and 180")
	}
	for i, window := range c.Agenda.SchoolBreaks {
		start, err := time.Parse("2006-01-02", window.Start)
		if err != nil {
			return fmt.Errorf("agenda.school_break[%d].start: %w", i, err)
		}
		end, err := time.Parse("2006-01-02", window.End)
		if err != nil {
			return fmt.Errorf("agenda.school_break[%d].end: %w", i, err)
		}
		if end.Before(start) {
			return fmt.Errorf("agenda.school_break[%d] end precedes start", i)
		}
		if strings.TrimSpace(window.Name) == "" {
			return fmt.Errorf("agenda.school_break[%d].name must be set", i)
		}
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	return ensurePositiveMap(map[string]int{
		"gateway.timeout_seconds":           c.Gateway.TimeoutSeconds,
		"feeds.fetch_timeout_seconds":       c.Feeds.FetchTimeoutSeconds,
		"retrieval.candidate_count":         c.Retrieval.CandidateCount,
		"sales.batch_size":                  c.Sales.BatchSize,
		"sales.max_customers":               c.Sales.MaxCustomers,
		"workflow.refresh_interval_minutes": c.Workflow.RefreshIntervalMinutes,
		"notifications.request_timeout":     c.Notifications.RequestTimeoutSeconds,
	})
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
