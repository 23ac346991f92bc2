package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DefaultFormatRetries is how many corrective re-requests the classifier
// sends after an invalid reasoning-engine response before giving up.
const DefaultFormatRetries = 1

// RiskClassifier is the core reasoning step: given article text and a
// candidate monitor set, it asks the reasoning engine for a structured
// assessment and enforces the output contract on the reply.
//
// The engine is non-deterministic; two calls with identical input may return
// differently ordered or differently worded verdicts. That is a documented
// property of the system, not something this type hides.
type RiskClassifier struct {
	llm           CompletionClient
	formatRetries int
	log           *zap.Logger
}

// NewRiskClassifier creates a classifier backed by the given completion
// client. formatRetries < 0 falls back to the default.
func NewRiskClassifier(llm CompletionClient, formatRetries int, logger *zap.Logger) *RiskClassifier {
	if formatRetries < 0 {
		formatRetries = DefaultFormatRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RiskClassifier{
		llm:           llm,
		formatRetries: formatRetries,
		log:           logger,
	}
}

// Classify produces one validated RiskVerdict per reported monitor. With no
// candidates it returns an empty result without contacting the engine.
//
// Failure modes are kept distinct: an *UpstreamError means the engine could
// not be asked; a *FormatError means it was asked and every reply failed
// validation.
func (c *RiskClassifier) Classify(ctx context.Context, article ArticleContent, candidates []Monitor) ([]RiskVerdict, error) {
	if len(candidates) == 0 {
		c.log.Debug("no candidate monitors, skipping reasoning request")
		return []RiskVerdict{}, nil
	}

	messages := []ChatMessage{
		{Role: RoleSystem, Content: classifierSystemPrompt},
		{Role: RoleUser, Content: buildClassificationRequest(article, candidates)},
	}

	known := make(map[string]bool, len(candidates))
	for _, m := range candidates {
		known[strings.ToLower(m.Label)] = true
	}

	attempts := 0
	var lastRaw string
	var lastReason string
	for attempts <= c.formatRetries {
		raw, err := c.llm.Complete(ctx, messages)
		if err != nil {
			return nil, &UpstreamError{Op: "reasoning engine", Err: err}
		}
		attempts++
		lastRaw = raw

		verdicts, err := parseVerdicts(raw, known, c.log)
		if err == nil {
			return verdicts, nil
		}
		lastReason = err.Error()
		c.log.Warn("reasoning engine response failed validation",
			zap.Int("attempt", attempts), zap.String("reason", lastReason))

		// Feed the bad response back with a corrective instruction.
		messages = append(messages,
			ChatMessage{Role: RoleAssistant, Content: raw},
			ChatMessage{Role: RoleUser, Content: correctiveFollowUp},
		)
	}

	return nil, &FormatError{
		Attempts:     attempts,
		Reason:       lastReason,
		LastResponse: lastRaw,
	}
}

// rawVerdict mirrors the schema the engine is instructed to emit. Fields are
// plain strings so validation, not unmarshalling, decides what is acceptable.
type rawVerdict struct {
	Monitor string `json:"monitor"`
	Risk    string `json:"risk"`
	Reason  string `json:"reason"`
	Summary string `json:"summary"`
}

// parseVerdicts enforces the output contract on a raw engine response.
// Verdicts for monitors outside the candidate set are dropped with a log
// line; everything else that is malformed fails the whole response so the
// caller can re-request. Missing fields are never guessed or coerced.
func parseVerdicts(raw string, known map[string]bool, log *zap.Logger) ([]RiskVerdict, error) {
	payload, err := extractJSONArray(raw)
	if err != nil {
		return nil, err
	}

	var entries []rawVerdict
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return nil, fmt.Errorf("response is not a valid verdict array: %w", err)
	}

	verdicts := make([]RiskVerdict, 0, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Monitor) == "" {
			return nil, fmt.Errorf("entry %d is missing the monitor field", i)
		}

		risk := RiskLevel(strings.ToLower(strings.TrimSpace(e.Risk)))
		if !risk.Valid() {
			return nil, fmt.Errorf("entry %d has risk %q outside the allowed enumeration", i, e.Risk)
		}
		if risk != RiskNone && strings.TrimSpace(e.Reason) == "" {
			return nil, fmt.Errorf("entry %d has risk %q but no reason", i, risk)
		}

		if !known[strings.ToLower(e.Monitor)] {
			// The engine mentioned a subject nobody is watching. Dropping it
			// keeps the output a subset of the stored monitors.
			log.Warn("dropping verdict for unknown monitor", zap.String("monitor", e.Monitor))
			continue
		}

		verdicts = append(verdicts, RiskVerdict{
			Monitor: e.Monitor,
			Risk:    risk,
			Reason:  strings.TrimSpace(e.Reason),
			Summary: strings.TrimSpace(e.Summary),
		})
	}

	return verdicts, nil
}

// extractJSONArray locates the JSON array within an engine response,
// tolerating surrounding prose and markdown code fences.
func extractJSONArray(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if fenced := strings.Index(s, "```"); fenced >= 0 {
		s = strings.ReplaceAll(s, "```json", "```")
		parts := strings.Split(s, "```")
		for _, part := range parts {
			if strings.Contains(part, "[") {
				s = part
				break
			}
		}
	}

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end < start {
		return "", fmt.Errorf("response contains no JSON array")
	}
	return s[start : end+1], nil
}
