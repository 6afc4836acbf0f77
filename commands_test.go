package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// demoEnv points the config loader at a nonexistent file and clears any
// ambient credentials so commands run against the bundled sample data in
// demo mode.
func demoEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	for _, key := range []string{
		"LLM_PROVIDER", "LLM_MODEL", "LLM_TEMPERATURE", "LLM_MAX_TOKENS",
		"LLM_MAX_RETRIES", "GROQ_API_KEY", "ANTHROPIC_API_KEY",
		"Z_THRESHOLD", "LINE_Z_THRESHOLD", "TREND_BUCKET",
		"REPORT_OUTPUT_DIR", "EXTERNAL_HTTP_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, buf.String())
	}
	return buf.String()
}

func TestClassifyCommandDemoMode(t *testing.T) {
	demoEnv(t)
	out := runCommand(t, "classify")
	if !strings.Contains(out, "30 classified, 0 failed") {
		t.Fatalf("unexpected classify summary:\n%s", out)
	}
	if !strings.Contains(out, "C-001") || !strings.Contains(out, "C-030") {
		t.Fatalf("classify table missing sample ids:\n%s", out)
	}
}

func TestClassifyCommandWritesCSV(t *testing.T) {
	demoEnv(t)
	path := filepath.Join(t.TempDir(), "enriched.csv")
	out := runCommand(t, "classify", "--output", path)
	if !strings.Contains(out, "wrote "+path) {
		t.Fatalf("missing write confirmation:\n%s", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !strings.Contains(string(data), "complaint_id") || !strings.Contains(string(data), "C-001") {
		t.Fatalf("unexpected export contents:\n%s", data)
	}
}

func TestClassifyCommandCustomInput(t *testing.T) {
	demoEnv(t)
	path := filepath.Join(t.TempDir(), "input.csv")
	csv := "complaint_id,complaint_text\nC-001,Device failed on startup\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatalf("writing input: %v", err)
	}
	out := runCommand(t, "classify", "--input", path)
	if !strings.Contains(out, "1 classified, 0 failed") {
		t.Fatalf("unexpected summary:\n%s", out)
	}
}

func TestClassifyCommandInlineText(t *testing.T) {
	demoEnv(t)
	out := runCommand(t, "classify", "--text", "Device failed on startup\nDisplay flickers intermittently")
	if !strings.Contains(out, "2 classified, 0 failed") {
		t.Fatalf("unexpected summary:\n%s", out)
	}
	// Free-text records get sequential generated IDs.
	if !strings.Contains(out, "C-001") || !strings.Contains(out, "C-002") {
		t.Fatalf("missing generated ids:\n%s", out)
	}
}

func TestClassifyCommandInputAndTextConflict(t *testing.T) {
	demoEnv(t)
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"classify", "--input", "some.csv", "--text", "a complaint"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Fatalf("expected mutual-exclusion error, got %v", err)
	}
}

func TestTrendCommand(t *testing.T) {
	demoEnv(t)
	out := runCommand(t, "trend")
	for _, want := range []string{"Rolling mean", "2024-01", "2024-05"} {
		if !strings.Contains(out, want) {
			t.Fatalf("trend output missing %q:\n%s", want, out)
		}
	}
}

func TestTrendCommandByDefect(t *testing.T) {
	demoEnv(t)
	out := runCommand(t, "trend", "--by-defect")
	if !strings.Contains(out, "Defect type") {
		t.Fatalf("missing defect column:\n%s", out)
	}
}

func TestTrendCommandRejectsBadBucket(t *testing.T) {
	demoEnv(t)
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"trend", "--bucket", "year"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown bucket")
	}
}

func TestAnomaliesCommand(t *testing.T) {
	demoEnv(t)
	out := runCommand(t, "anomalies")
	// The sample data carries a global spike in May 2024 and a Line 2 spike.
	if !strings.Contains(out, "global") || !strings.Contains(out, "2024-05") {
		t.Fatalf("missing global anomaly:\n%s", out)
	}
	if !strings.Contains(out, "Line 2") {
		t.Fatalf("missing per-line anomaly:\n%s", out)
	}
}

func TestAnomaliesCommandThresholdOverride(t *testing.T) {
	demoEnv(t)
	out := runCommand(t, "anomalies", "--threshold", "50", "--line-threshold", "50")
	if !strings.Contains(out, "no anomalies detected") {
		t.Fatalf("expected no anomalies at extreme threshold:\n%s", out)
	}
}

func TestCorrelationCommand(t *testing.T) {
	demoEnv(t)
	out := runCommand(t, "correlation")
	for _, want := range []string{"Production line", "Total", "Line 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("correlation output missing %q:\n%s", want, out)
		}
	}
}

func TestSentimentCommand(t *testing.T) {
	demoEnv(t)
	out := runCommand(t, "sentiment")
	for _, want := range []string{"Sentiment", "negative", "Product line"} {
		if !strings.Contains(out, want) {
			t.Fatalf("sentiment output missing %q:\n%s", want, out)
		}
	}
}

func TestReportCommandSummary(t *testing.T) {
	demoEnv(t)
	out := runCommand(t, "report")
	if !strings.Contains(out, "## Executive summary") {
		t.Fatalf("missing summary heading:\n%s", out)
	}
	if !strings.Contains(out, "**Total complaints analyzed:** 30") {
		t.Fatalf("missing totals:\n%s", out)
	}
}

func TestReportCommandMDRStaticInDemoMode(t *testing.T) {
	demoEnv(t)
	out := runCommand(t, "report", "--type", "mdr")
	if !strings.Contains(out, "## Vigilance / MDR report") {
		t.Fatalf("missing mdr heading:\n%s", out)
	}
}

func TestReportCommandWrite(t *testing.T) {
	demoEnv(t)
	dir := t.TempDir()
	t.Setenv("REPORT_OUTPUT_DIR", dir)
	out := runCommand(t, "report", "--write")
	if !strings.Contains(out, "wrote "+dir) {
		t.Fatalf("missing write confirmation:\n%s", out)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one report file, got %v (%v)", entries, err)
	}
	if !strings.HasPrefix(entries[0].Name(), "summary_") {
		t.Fatalf("unexpected report filename %s", entries[0].Name())
	}
}

func TestReportCommandUnknownType(t *testing.T) {
	demoEnv(t)
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"report", "--type", "weekly"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "weekly") {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}
