package pipeline

import (
	"context"
	"fmt"

	"github.com/driftlab/driftwatch/internal/models"
	"github.com/driftlab/driftwatch/internal/oracle"
)

const hypothesisPrompt = `Construct or refine a structured hypothesis for this startup.

Context:
- User: %s
- Solution: %s
- Channel: %s
- Raw hypothesis: %s

Template: "For <target_user>, if we offer <solution> through <channel>,
then within <timeframe> we expect <measurable change in <metric>>."

Task:
1. Create a structured hypothesis sentence following the template.
2. Extract or define the metric.
3. Extract or define the timeframe.
4. Flag issues when the metric is a vanity metric (likes, views) or the
   timeframe is unrealistic.

Reply with JSON:
{
  "hypothesis": "string",
  "metric": "string",
  "timeframe": "string",
  "issues": ["string"]
}`

// HypothesisVerdict is the hypothesis enforcer's report. Its hypothesis,
// metric, and timeframe overwrite the corresponding draft fields.
type HypothesisVerdict struct {
	Hypothesis *string  `json:"hypothesis"`
	Metric     *string  `json:"metric"`
	Timeframe  *string  `json:"timeframe"`
	Issues     []string `json:"issues"`
}

// EnforceHypothesis folds the hypothesis dimension over the draft: the
// oracle rewrites the hypothesis into the canonical template and the draft's
// hypothesis, metric, and timeframe are overwritten with the result.
func EnforceHypothesis(ctx context.Context, o oracle.Oracle, snap models.Snapshot) (models.Snapshot, HypothesisVerdict, error) {
	prompt := fmt.Sprintf(hypothesisPrompt,
		orEmpty(snap.TargetUser),
		orEmpty(snap.Solution),
		channelOrEmpty(snap.PrimaryChannelType),
		orEmpty(snap.Hypothesis))

	var verdict HypothesisVerdict
	if err := oracle.InferInto(ctx, o, prompt, &verdict); err != nil {
		return models.Snapshot{}, HypothesisVerdict{}, fmt.Errorf("enforce hypothesis: %w", err)
	}

	snap.Hypothesis = verdict.Hypothesis
	snap.Metric = verdict.Metric
	snap.Timeframe = verdict.Timeframe
	return snap, verdict, nil
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func channelOrEmpty(ct *models.ChannelType) string {
	if ct == nil {
		return ""
	}
	return string(*ct)
}
