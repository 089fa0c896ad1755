package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pulse/internal/config"
	"pulse/internal/services/llm"
	"pulse/internal/store"
)

const apiRequestTimeout = 10 * time.Second

type commandContext struct {
	configFlag *string
	apiFlag    *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, apiFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		apiFlag:    apiFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// withStore opens the SQLite store for the duration of one command.
func (c *commandContext) withStore(fn func(*config.Config, *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	return fn(cfg, st)
}

// newGateway builds the model gateway client from configuration. Commands
// that talk to the gateway need an API key; everything else works without.
func (c *commandContext) newGateway() (*llm.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Gateway.APIKey) == "" {
		return nil, errors.New("gateway api_key is not configured (set [gateway] api_key or export PULSE_GATEWAY_API_KEY)")
	}
	return llm.NewClient(llm.Config{
		APIKey:         cfg.Gateway.APIKey,
		BaseURL:        cfg.Gateway.BaseURL,
		Model:          cfg.Gateway.ChatModel,
		TimeoutSeconds: cfg.Gateway.TimeoutSeconds,
		Metadata:       cfg.Gateway.Metadata,
	}), nil
}

// apiBaseURL resolves the daemon API base: the --api flag wins, otherwise the
// configured bind address is assumed to be reachable locally.
func (c *commandContext) apiBaseURL() (string, error) {
	if c.apiFlag != nil {
		if base := strings.TrimSpace(*c.apiFlag); base != "" {
			return strings.TrimRight(base, "/"), nil
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return "", errors.New("daemon API is disabled (set [paths] api_bind or pass --api)")
	}
	if strings.HasPrefix(bind, "http://") || strings.HasPrefix(bind, "https://") {
		return strings.TrimRight(bind, "/"), nil
	}
	return "http://" + bind, nil
}

// apiGet fetches one read-API endpoint and decodes the JSON response into out.
func (c *commandContext) apiGet(ctx context.Context, path string, out any) error {
	base, err := c.apiBaseURL()
	if err != nil {
		return err
	}

	reqCtx, cancel := context.WithTimeout(ctx, apiRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, base+path, nil)
	if err != nil {
		return fmt.Errorf("build API request: %w", err)
	}
	if cfg := c.configValue(); cfg != nil {
		if token := strings.TrimSpace(cfg.Paths.APIToken); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return wrapAPIError(err, base)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		detail := strings.TrimSpace(string(body))
		if detail == "" {
			detail = resp.Status
		}
		return fmt.Errorf("daemon API %s: %s", path, detail)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode API response: %w", err)
	}
	return nil
}

func wrapAPIError(err error, base string) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("connect to daemon API at %s (start the daemon with `pulsed`): %w", base, err)
	}
	return fmt.Errorf("connect to daemon API at %s: %w", base, err)
}

// isDaemonDown reports whether an API error means no daemon is listening, as
// opposed to the daemon answering with an error.
func isDaemonDown(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
