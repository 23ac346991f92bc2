package monitor_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/FrenchMajesty/pr-monitor/monitor"
	"github.com/FrenchMajesty/pr-monitor/pkg/testutil"
)

var testCandidates = []monitor.Monitor{
	{ID: "1", Label: "Samsung Note 25"},
	{ID: "2", Label: "Tesla Model S"},
}

var testArticle = monitor.ArticleContent{Text: "New Samsung Note 25 recall due to battery issues."}

// TestClassify_ValidResponse tests that a well-formed engine response becomes
// validated verdicts.
func TestClassify_ValidResponse(t *testing.T) {
	mockLLM := &testutil.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, messages []monitor.ChatMessage) (string, error) {
			return `[{"monitor":"Samsung Note 25","risk":"critical","reason":"battery recall","summary":"recall due to battery issues"},{"monitor":"Tesla Model S","risk":"none"}]`, nil
		},
	}

	clf := monitor.NewRiskClassifier(mockLLM, 1, nil)
	verdicts, err := clf.Classify(context.Background(), testArticle, testCandidates)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if len(verdicts) != 2 {
		t.Fatalf("Expected 2 verdicts, got %d", len(verdicts))
	}
	if verdicts[0].Monitor != "Samsung Note 25" || verdicts[0].Risk != monitor.RiskCritical {
		t.Errorf("Unexpected first verdict: %+v", verdicts[0])
	}
	if verdicts[0].Reason == "" {
		t.Error("Expected a reason on the critical verdict")
	}
	if verdicts[1].Risk != monitor.RiskNone {
		t.Errorf("Expected none risk, got %q", verdicts[1].Risk)
	}
	if mockLLM.Calls() != 1 {
		t.Errorf("Expected a single engine call, got %d", mockLLM.Calls())
	}
}

// TestClassify_FencedResponse tests that a response wrapped in markdown code
// fences still parses.
func TestClassify_FencedResponse(t *testing.T) {
	mockLLM := &testutil.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, messages []monitor.ChatMessage) (string, error) {
			return "```json\n[{\"monitor\":\"Samsung Note 25\",\"risk\":\"low\",\"reason\":\"minor complaint\"}]\n```", nil
		},
	}

	clf := monitor.NewRiskClassifier(mockLLM, 1, nil)
	verdicts, err := clf.Classify(context.Background(), testArticle, testCandidates)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if len(verdicts) != 1 || verdicts[0].Risk != monitor.RiskLow {
		t.Fatalf("Unexpected verdicts: %+v", verdicts)
	}
}

// TestClassify_RiskCaseNormalized tests that enum matching is
// case-insensitive but never accepts values outside the enumeration.
func TestClassify_RiskCaseNormalized(t *testing.T) {
	mockLLM := &testutil.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, messages []monitor.ChatMessage) (string, error) {
			return `[{"monitor":"Tesla Model S","risk":"Critical","reason":"crash coverage"}]`, nil
		},
	}

	clf := monitor.NewRiskClassifier(mockLLM, 1, nil)
	verdicts, err := clf.Classify(context.Background(), testArticle, testCandidates)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if verdicts[0].Risk != monitor.RiskCritical {
		t.Errorf("Expected normalized critical, got %q", verdicts[0].Risk)
	}
}

// TestClassify_CorrectiveRetry tests that an invalid first response triggers
// one corrective follow-up and the second response is used.
func TestClassify_CorrectiveRetry(t *testing.T) {
	call := 0
	mockLLM := &testutil.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, messages []monitor.ChatMessage) (string, error) {
			call++
			if call == 1 {
				return `[{"monitor":"Samsung Note 25","risk":"catastrophic","reason":"x"}]`, nil
			}
			return `[{"monitor":"Samsung Note 25","risk":"medium","reason":"negative headline"}]`, nil
		},
	}

	clf := monitor.NewRiskClassifier(mockLLM, 1, nil)
	verdicts, err := clf.Classify(context.Background(), testArticle, testCandidates)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if len(verdicts) != 1 || verdicts[0].Risk != monitor.RiskMedium {
		t.Fatalf("Unexpected verdicts: %+v", verdicts)
	}
	if mockLLM.Calls() != 2 {
		t.Errorf("Expected 2 engine calls, got %d", mockLLM.Calls())
	}

	// The second request must carry the corrective instruction and the bad
	// response.
	last := mockLLM.LastMessages
	if len(last) != 4 {
		t.Fatalf("Expected 4 messages on retry, got %d", len(last))
	}
	if last[2].Role != monitor.RoleAssistant {
		t.Errorf("Expected assistant echo of the bad response, got role %q", last[2].Role)
	}
	if last[3].Role != monitor.RoleUser || !strings.Contains(last[3].Content, "JSON array") {
		t.Errorf("Expected corrective follow-up, got %+v", last[3])
	}
}

// TestClassify_GarbageTwiceFails tests that two unparseable responses in a
// row produce a FormatError rather than a crash or fabricated verdicts.
func TestClassify_GarbageTwiceFails(t *testing.T) {
	mockLLM := &testutil.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, messages []monitor.ChatMessage) (string, error) {
			return "I looked at the article and it seems fine to me.", nil
		},
	}

	clf := monitor.NewRiskClassifier(mockLLM, 1, nil)
	verdicts, err := clf.Classify(context.Background(), testArticle, testCandidates)
	if verdicts != nil {
		t.Errorf("Expected no verdicts, got %+v", verdicts)
	}

	var formatErr *monitor.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Expected FormatError, got %v", err)
	}
	if formatErr.Attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", formatErr.Attempts)
	}
	if mockLLM.Calls() != 2 {
		t.Errorf("Expected 2 engine calls, got %d", mockLLM.Calls())
	}
}

// TestClassify_MissingReasonRejected tests that a non-none verdict without a
// reason never reaches the caller.
func TestClassify_MissingReasonRejected(t *testing.T) {
	mockLLM := &testutil.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, messages []monitor.ChatMessage) (string, error) {
			return `[{"monitor":"Samsung Note 25","risk":"low"}]`, nil
		},
	}

	clf := monitor.NewRiskClassifier(mockLLM, 1, nil)
	_, err := clf.Classify(context.Background(), testArticle, testCandidates)

	var formatErr *monitor.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Expected FormatError, got %v", err)
	}
	if !strings.Contains(formatErr.Reason, "reason") {
		t.Errorf("Expected the failure to mention the missing reason, got %q", formatErr.Reason)
	}
}

// TestClassify_UnknownMonitorDropped tests that verdicts for monitors outside
// the candidate set are dropped, not failed.
func TestClassify_UnknownMonitorDropped(t *testing.T) {
	mockLLM := &testutil.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, messages []monitor.ChatMessage) (string, error) {
			return `[{"monitor":"Samsung Note 25","risk":"none"},{"monitor":"Nokia 3310","risk":"critical","reason":"made up"}]`, nil
		},
	}

	clf := monitor.NewRiskClassifier(mockLLM, 1, nil)
	verdicts, err := clf.Classify(context.Background(), testArticle, testCandidates)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if len(verdicts) != 1 || verdicts[0].Monitor != "Samsung Note 25" {
		t.Fatalf("Expected only the known monitor, got %+v", verdicts)
	}
	if mockLLM.Calls() != 1 {
		t.Errorf("Dropping unknown monitors should not trigger a retry, got %d calls", mockLLM.Calls())
	}
}

// TestClassify_NoCandidatesSkipsEngine tests the empty-store short circuit.
func TestClassify_NoCandidatesSkipsEngine(t *testing.T) {
	mockLLM := &testutil.MockCompletionClient{}

	clf := monitor.NewRiskClassifier(mockLLM, 1, nil)
	verdicts, err := clf.Classify(context.Background(), testArticle, nil)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if len(verdicts) != 0 {
		t.Errorf("Expected no verdicts, got %+v", verdicts)
	}
	if mockLLM.Calls() != 0 {
		t.Errorf("Expected the engine not to be called, got %d calls", mockLLM.Calls())
	}
}

// TestClassify_UpstreamFailure tests that a transport failure surfaces as
// UpstreamError, distinct from a format problem.
func TestClassify_UpstreamFailure(t *testing.T) {
	mockLLM := &testutil.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, messages []monitor.ChatMessage) (string, error) {
			return "", fmt.Errorf("connection refused")
		},
	}

	clf := monitor.NewRiskClassifier(mockLLM, 1, nil)
	_, err := clf.Classify(context.Background(), testArticle, testCandidates)

	var upstreamErr *monitor.UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	var formatErr *monitor.FormatError
	if errors.As(err, &formatErr) {
		t.Error("Upstream failure must not be reported as a format error")
	}
	if mockLLM.Calls() != 1 {
		t.Errorf("Transport failures should not consume format retries, got %d calls", mockLLM.Calls())
	}
}

// TestClassify_CandidatesEnumeratedInPrompt tests that the request enumerates
// every candidate monitor and the article text.
func TestClassify_CandidatesEnumeratedInPrompt(t *testing.T) {
	mockLLM := &testutil.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, messages []monitor.ChatMessage) (string, error) {
			return `[]`, nil
		},
	}

	clf := monitor.NewRiskClassifier(mockLLM, 1, nil)
	if _, err := clf.Classify(context.Background(), testArticle, testCandidates); err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	user := mockLLM.LastMessages[len(mockLLM.LastMessages)-1].Content
	for _, m := range testCandidates {
		if !strings.Contains(user, m.Label) {
			t.Errorf("Prompt is missing candidate %q", m.Label)
		}
	}
	if !strings.Contains(user, testArticle.Text) {
		t.Error("Prompt is missing the article text")
	}
}
