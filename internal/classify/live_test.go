package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"vocanalyzer/internal/config"
	"vocanalyzer/internal/domain"
)

func testConfig() config.Config {
	return config.Config{
		LLMProvider:   "groq",
		GroqAPIKey:    "test-key",
		LLMMaxRetries: 3,
	}
}

// newTestClassifier wires a LiveClassifier to a canned invoke function and
// records every sleep instead of waiting.
func newTestClassifier(t *testing.T, invoke func(ctx context.Context, system, user string) (string, error)) (*LiveClassifier, *[]time.Duration) {
	t.Helper()
	c := NewLiveClassifier(testConfig())
	var slept []time.Duration
	record := func(d time.Duration) { slept = append(slept, d) }
	c.serviceRetry.sleep = record
	c.parseRetry.sleep = record
	c.invoke = invoke
	return c, &slept
}

func TestClassifyParsesCleanResponse(t *testing.T) {
	c, _ := newTestClassifier(t, func(context.Context, string, string) (string, error) {
		return `{"defect_type":"solder_defect","defect_subtype":"cold solder","severity":"major","root_cause_hypothesis":"reflow profile","sentiment":"negative","summary":"cold joints"}`, nil
	})

	got := c.Classify(context.Background(), domain.ComplaintRecord{ComplaintID: "C-001", ComplaintText: "cold solder joints"})
	if got.Failed() {
		t.Fatalf("unexpected error: %s", got.Error)
	}
	if got.DefectType != "solder_defect" || got.Severity != "major" || got.Sentiment != "negative" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestClassifyStripsMarkdownFence(t *testing.T) {
	c, _ := newTestClassifier(t, func(context.Context, string, string) (string, error) {
		return "```json\n{\"defect_type\":\"electrical\",\"defect_subtype\":\"short circuit\",\"severity\":\"major\",\"root_cause_hypothesis\":\"bridging\",\"sentiment\":\"negative\",\"summary\":\"shorts\"}\n```", nil
	})

	got := c.Classify(context.Background(), domain.ComplaintRecord{ComplaintID: "C-009", ComplaintText: "short circuits"})
	if got.Failed() {
		t.Fatalf("fenced response should parse, got error: %s", got.Error)
	}
	if got.DefectType != "electrical" {
		t.Fatalf("got defect type %q", got.DefectType)
	}
}

func TestClassifyRejectsUnknownKeys(t *testing.T) {
	calls := 0
	c, _ := newTestClassifier(t, func(context.Context, string, string) (string, error) {
		calls++
		return `{"defect_type":"electrical","surprise":"extra"}`, nil
	})

	got := c.Classify(context.Background(), domain.ComplaintRecord{ComplaintID: "C-001", ComplaintText: "text"})
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if got.Error != "JSON parsing failed after 3 attempts" {
		t.Fatalf("got error %q", got.Error)
	}
}

func TestClassifyParseRetryUsesFixedDelay(t *testing.T) {
	c, slept := newTestClassifier(t, func(context.Context, string, string) (string, error) {
		return "not json at all", nil
	})

	c.Classify(context.Background(), domain.ComplaintRecord{ComplaintID: "C-001", ComplaintText: "text"})

	want := []time.Duration{time.Second, time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), *slept)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Fatalf("sleep %d = %s, want %s", i, (*slept)[i], d)
		}
	}
}

func TestClassifyServiceRetryUsesExponentialBackoff(t *testing.T) {
	calls := 0
	c, slept := newTestClassifier(t, func(context.Context, string, string) (string, error) {
		calls++
		return "", errors.New("rate limited")
	})

	got := c.Classify(context.Background(), domain.ComplaintRecord{ComplaintID: "C-001", ComplaintText: "text"})
	if calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", calls)
	}
	if !got.Failed() {
		t.Fatal("expected a failed result after retry exhaustion")
	}

	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), *slept)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Fatalf("sleep %d = %s, want %s", i, (*slept)[i], d)
		}
	}
}

func TestClassifyRejectsNullResponse(t *testing.T) {
	calls := 0
	c, slept := newTestClassifier(t, func(context.Context, string, string) (string, error) {
		calls++
		return "null", nil
	})

	got := c.Classify(context.Background(), domain.ComplaintRecord{ComplaintID: "C-001", ComplaintText: "text"})
	if calls != 3 {
		t.Fatalf("null response must go through parse retries, got %d attempts", calls)
	}
	if !got.Failed() {
		t.Fatal("null response must not produce a successful empty classification")
	}
	if got.Error != "JSON parsing failed after 3 attempts" {
		t.Fatalf("got error %q", got.Error)
	}
	if want := []time.Duration{time.Second, time.Second}; len(*slept) != len(want) {
		t.Fatalf("expected the fixed parse-retry schedule, got %v", *slept)
	}
}

func TestClassifyTruncatesLongErrors(t *testing.T) {
	long := strings.Repeat("x", 300)
	c, _ := newTestClassifier(t, func(context.Context, string, string) (string, error) {
		return "", errors.New(long)
	})

	got := c.Classify(context.Background(), domain.ComplaintRecord{ComplaintID: "C-001", ComplaintText: "text"})
	if len(got.Error) != maxErrorLen {
		t.Fatalf("error length = %d, want %d", len(got.Error), maxErrorLen)
	}
}

func TestClassifyTruncatesErrorsOnRuneBoundary(t *testing.T) {
	// 3-byte runes put the 100-byte cut inside a sequence.
	long := strings.Repeat("→", 200)
	c, _ := newTestClassifier(t, func(context.Context, string, string) (string, error) {
		return "", errors.New(long)
	})

	got := c.Classify(context.Background(), domain.ComplaintRecord{ComplaintID: "C-001", ComplaintText: "text"})
	if len(got.Error) > maxErrorLen {
		t.Fatalf("error length = %d, want <= %d", len(got.Error), maxErrorLen)
	}
	if !utf8.ValidString(got.Error) {
		t.Fatalf("truncated error is not valid UTF-8: %q", got.Error)
	}
}

func TestClassifyRecoversOnRetry(t *testing.T) {
	calls := 0
	c, _ := newTestClassifier(t, func(context.Context, string, string) (string, error) {
		calls++
		if calls < 3 {
			return "", fmt.Errorf("transient failure %d", calls)
		}
		return `{"defect_type":"mechanical","defect_subtype":"crack","severity":"critical","root_cause_hypothesis":"fatigue","sentiment":"negative","summary":"housing crack"}`, nil
	})

	got := c.Classify(context.Background(), domain.ComplaintRecord{ComplaintID: "C-008", ComplaintText: "cracked housing"})
	if got.Failed() {
		t.Fatalf("expected recovery on third attempt, got error %q", got.Error)
	}
	if got.DefectType != "mechanical" {
		t.Fatalf("got %+v", got)
	}
}

func TestClassifyEmptyTextNoCall(t *testing.T) {
	calls := 0
	c, _ := newTestClassifier(t, func(context.Context, string, string) (string, error) {
		calls++
		return "{}", nil
	})

	got := c.Classify(context.Background(), domain.ComplaintRecord{ComplaintID: "C-001"})
	if calls != 0 {
		t.Fatalf("empty text must not reach the service, got %d calls", calls)
	}
	if !got.Failed() {
		t.Fatal("expected an error result for empty complaint text")
	}
}

func TestIsAvailable(t *testing.T) {
	withKey := NewLiveClassifier(testConfig())
	if !withKey.IsAvailable() {
		t.Fatal("expected availability with configured key")
	}

	cfg := testConfig()
	cfg.GroqAPIKey = ""
	withoutKey := NewLiveClassifier(cfg)
	if withoutKey.IsAvailable() {
		t.Fatal("expected unavailability without key")
	}
}

func TestParseClassificationResponseRejectsTrailingContent(t *testing.T) {
	_, err := parseClassificationResponse(`{"defect_type":"electrical"} trailing prose`)
	if err == nil {
		t.Fatal("expected parse failure for trailing content")
	}
}

func TestParseClassificationResponseRejectsArrays(t *testing.T) {
	_, err := parseClassificationResponse(`[{"defect_type":"electrical"}]`)
	if err == nil {
		t.Fatal("expected parse failure for non-object response")
	}
}

func TestParseClassificationResponseRejectsNonObjectValues(t *testing.T) {
	for _, raw := range []string{"null", "42", `"a string"`, "true", "```json\nnull\n```"} {
		if _, err := parseClassificationResponse(raw); err == nil {
			t.Fatalf("expected parse failure for %q", raw)
		}
	}
}
