package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pulse/internal/logging"
	"pulse/internal/services"
)

func TestWithContextCarriesRunAndCustomer(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "ctx.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRunID(context.Background(), "run-abc")
	ctx = services.WithCustomerID(ctx, 12)
	logging.WithContext(ctx, logger).Info("opportunity stored")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, "run_id=run-abc") {
		t.Fatalf("missing run id in %q", line)
	}
	if !strings.Contains(line, "customer_id=12") {
		t.Fatalf("missing customer id in %q", line)
	}
}

func TestWithContextBareContextReturnsSameLogger(t *testing.T) {
	logger := logging.NewNop()
	if got := logging.WithContext(context.Background(), logger); got != logger {
		t.Fatal("expected the unmodified logger for a bare context")
	}
	if got := logging.WithContext(context.Background(), nil); got == nil {
		t.Fatal("expected a usable logger for nil input")
	}
}

func TestContextFieldsNilContext(t *testing.T) {
	if fields := logging.ContextFields(nil); fields != nil {
		t.Fatalf("expected no fields, got %v", fields)
	}
}
