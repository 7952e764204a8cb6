package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/driftlab/driftwatch/internal/models"
	"github.com/driftlab/driftwatch/internal/oracle"
)

// Review dimensions.
const (
	DimensionUser         = "User"
	DimensionDistribution = "Distribution"
	DimensionHypothesis   = "Hypothesis"
)

// BuildReviews combines the three enforcer verdicts into per-dimension
// reviews and the overall status. Entirely deterministic; no oracle call.
// Any blocker blocks the whole run; major and minor never do.
func BuildReviews(user UserVerdict, channel ChannelVerdict, hypo HypothesisVerdict) ([]models.DimensionReview, models.Status) {
	reviews := make([]models.DimensionReview, 0, 3)

	userReview := models.DimensionReview{Dimension: DimensionUser, Severity: models.SeverityOK}
	if !user.IsValid {
		userReview.Severity = models.SeverityBlocker
		userReview.Issue = strPtr(user.Reason)
		if user.ImprovedTargetUser != nil {
			userReview.Recommendation = strPtr("Try: " + *user.ImprovedTargetUser)
		}
	}
	reviews = append(reviews, userReview)

	chanReview := models.DimensionReview{Dimension: DimensionDistribution, Severity: models.SeverityOK}
	if len(channel.Issues) > 0 {
		chanReview.Severity = models.SeverityBlocker
		chanReview.Issue = strPtr(strings.Join(channel.Issues, "; "))
		chanReview.Recommendation = strPtr("Pick one concrete channel.")
	}
	reviews = append(reviews, chanReview)

	hypoReview := models.DimensionReview{Dimension: DimensionHypothesis, Severity: models.SeverityOK}
	if len(hypo.Issues) > 0 {
		hypoReview.Severity = models.SeverityMajor
		hypoReview.Issue = strPtr(strings.Join(hypo.Issues, "; "))
		hypoReview.Recommendation = strPtr("Refine metric and timeframe.")
	}
	reviews = append(reviews, hypoReview)

	status := models.StatusOK
	for _, r := range reviews {
		if r.Severity == models.SeverityBlocker {
			status = models.StatusBlocked
			break
		}
	}
	return reviews, status
}

const experimentsPrompt = `Design exactly 3 minimal, concrete experiments for this startup to
validate its hypothesis.

Context:
- User: %s
- Hypothesis: %s
- Channel: %s (%s)

Reply with a JSON list (or an object with an "experiments" list) of:
{
  "title": "string",
  "channel_type": %q,
  "steps": ["step 1", "step 2"],
  "success_criteria": "string",
  "time_cost": "string"
}`

type experimentPayload struct {
	Title           string   `json:"title"`
	ChannelType     string   `json:"channel_type"`
	Steps           []string `json:"steps"`
	SuccessCriteria string   `json:"success_criteria"`
	TimeCost        string   `json:"time_cost"`
}

// Validate rejects payloads missing any required field. An invalid item is
// fatal for the request rather than silently skipped, keeping the failure
// mode enumerable.
func (e experimentPayload) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Title, validation.Required),
		validation.Field(&e.ChannelType, validation.Required),
		validation.Field(&e.Steps, validation.Required),
		validation.Field(&e.SuccessCriteria, validation.Required),
		validation.Field(&e.TimeCost, validation.Required),
	)
}

// GenerateExperiments asks the oracle for three validation experiments tied
// to the enforced snapshot. The reply may be a bare list or an object
// wrapping the list under "experiments"; anything else is an oracle error.
func GenerateExperiments(ctx context.Context, o oracle.Oracle, snap models.Snapshot) ([]models.Experiment, error) {
	channel := channelOrEmpty(snap.PrimaryChannelType)
	prompt := fmt.Sprintf(experimentsPrompt,
		orEmpty(snap.TargetUser),
		orEmpty(snap.Hypothesis),
		channel,
		orEmpty(snap.PrimaryChannelDescription),
		channel)

	raw, err := o.Infer(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate experiments: %w", err)
	}

	payloads, err := parseExperiments(raw)
	if err != nil {
		return nil, fmt.Errorf("generate experiments: %w", err)
	}

	experiments := make([]models.Experiment, 0, len(payloads))
	for i, p := range payloads {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("generate experiments: item %d: %w", i, err)
		}
		experiments = append(experiments, models.Experiment{
			Title:           p.Title,
			ChannelType:     p.ChannelType,
			Steps:           p.Steps,
			SuccessCriteria: p.SuccessCriteria,
			TimeCost:        p.TimeCost,
		})
	}
	return experiments, nil
}

// parseExperiments handles the two accepted reply shapes explicitly: a bare
// JSON array, or an object wrapping the array under "experiments". The
// prompt asks for exactly three, so an empty or null list is an oracle
// error, not a valid answer.
func parseExperiments(raw json.RawMessage) ([]experimentPayload, error) {
	var list []experimentPayload
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list, nil
	}

	var wrapped struct {
		Experiments []experimentPayload `json:"experiments"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Experiments) > 0 {
		return wrapped.Experiments, nil
	}

	return nil, fmt.Errorf("oracle: experiments reply is neither a list nor a wrapped list, or is empty")
}

func strPtr(s string) *string {
	return &s
}
