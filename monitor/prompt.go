package monitor

import (
	"fmt"
	"strings"
)

const classifierSystemPrompt = `You are a PR risk analyst. Given a news article and a list of watched subjects ("monitors"), check whether the article contains any information that negatively impacts the publicity and reputation of any monitor.

Respond with ONLY a JSON array, one object per monitor, in exactly this format:
[{"monitor": "<monitor label>", "risk": "<none|low|medium|critical>", "reason": "<why>", "summary": "<relevant article portion>"}]

Rules:
- "risk" must be one of: none, low, medium, critical. Never any other value.
- "reason" is required whenever risk is not "none".
- "summary" briefly describes the relevant part of the article; omit it when risk is "none".
- Only report monitors from the provided list. Do not invent monitors.
- Output the JSON array and nothing else: no prose, no code fences.`

// correctiveFollowUp restates the output contract after an unparseable or
// invalid response.
const correctiveFollowUp = `Your previous response was not valid. Respond again with ONLY a JSON array of objects with fields "monitor", "risk" (one of none, low, medium, critical), "reason" (required when risk is not "none") and optional "summary". No other text.`

// buildClassificationRequest enumerates the candidate monitors and the
// article text into the user message of the reasoning request.
func buildClassificationRequest(article ArticleContent, candidates []Monitor) string {
	var b strings.Builder
	b.WriteString("Monitors:\n")
	for _, m := range candidates {
		fmt.Fprintf(&b, "- %s\n", m.Label)
	}
	b.WriteString("\nArticle:\n")
	b.WriteString(article.Text)
	return b.String()
}
