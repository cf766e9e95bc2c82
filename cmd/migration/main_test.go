package main

import (
	"errors"
	"testing"

	"github.com/riskibarqy/quiniela/internal/platform/logging"
)

func TestParseSteps(t *testing.T) {
	if got, err := parseSteps(nil); err != nil || got != 1 {
		t.Fatalf("parseSteps(nil)=%d,%v want 1,nil", got, err)
	}
	if got, err := parseSteps([]string{" 3 "}); err != nil || got != 3 {
		t.Fatalf("parseSteps(3)=%d,%v want 3,nil", got, err)
	}
	for _, bad := range []string{"0", "-1", "abc"} {
		if _, err := parseSteps([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	if got, err := parseVersion("1772000100"); err != nil || got != 1772000100 {
		t.Fatalf("parseVersion=%d,%v", got, err)
	}
	if _, err := parseVersion("-2"); err == nil {
		t.Fatalf("expected error for negative version")
	}
	if got, err := parseTarget("5"); err != nil || got != 5 {
		t.Fatalf("parseTarget=%d,%v", got, err)
	}
	if _, err := parseTarget("x"); err == nil {
		t.Fatalf("expected error for bad target")
	}
}

func TestNormalizeDBURL(t *testing.T) {
	got := normalizeDBURL("postgres://u:p@localhost/quiniela?sslmode=disable", true)
	want := "postgres://u:p@localhost/quiniela?disable_prepared_binary_result=yes&sslmode=disable"
	if got != want {
		t.Fatalf("normalizeDBURL=%q want %q", got, want)
	}
	if got := normalizeDBURL("postgres://localhost/quiniela", false); got != "postgres://localhost/quiniela" {
		t.Fatalf("expected url unchanged, got %q", got)
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("MIGRATION_FLAG", "false")
	if envBool("MIGRATION_FLAG", true) {
		t.Fatalf("expected false")
	}
	t.Setenv("MIGRATION_FLAG", "nope")
	if !envBool("MIGRATION_FLAG", true) {
		t.Fatalf("expected fallback for unparsable value")
	}
}

func TestRun_RequiresCommand(t *testing.T) {
	if err := run(nil, logging.NewNop()); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestRun_RequiresDBURL(t *testing.T) {
	t.Setenv("DB_URL", "")
	if err := run([]string{"up"}, logging.NewNop()); err == nil {
		t.Fatalf("expected error without DB_URL")
	}
}
