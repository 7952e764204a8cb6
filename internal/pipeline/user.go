package pipeline

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/driftlab/driftwatch/internal/models"
	"github.com/driftlab/driftwatch/internal/oracle"
)

// minTargetUserLen is the trimmed length in runes below which a target user
// is rejected outright, without consulting the oracle.
const minTargetUserLen = 5

const userPrompt = `Evaluate the concreteness of this target user definition: %q

Rules:
1. It must define WHO (role/person).
2. It must define WHERE (context/environment).
3. It must define WHAT they are doing (behavior/job).

Examples:
- BAD: "anyone who uses the internet", "startups", "students".
- GOOD: "early-stage B2B SaaS founders at seed/pre-seed preparing their first pitch deck".

Reply with JSON:
{
  "is_valid": boolean,
  "reason": "why it is valid or invalid",
  "improved_target_user": "a more concrete version if invalid, else null"
}`

// UserVerdict is the user enforcer's report. It never mutates the draft;
// the review aggregator decides what to do with it.
type UserVerdict struct {
	IsValid            bool    `json:"is_valid"`
	Reason             string  `json:"reason"`
	ImprovedTargetUser *string `json:"improved_target_user"`
}

// ValidateTargetUser checks whether the draft's target user is concrete
// enough. Missing or too-short text is rejected deterministically; anything
// longer is judged by the oracle for WHO/WHERE/WHAT coverage.
func ValidateTargetUser(ctx context.Context, o oracle.Oracle, snap models.Snapshot) (UserVerdict, error) {
	var trimmed string
	if snap.TargetUser != nil {
		trimmed = strings.TrimSpace(*snap.TargetUser)
	}
	if utf8.RuneCountInString(trimmed) < minTargetUserLen {
		improved := "Specific role in a specific industry (e.g. 'HR Managers in Series B Tech Companies')."
		return UserVerdict{
			IsValid:            false,
			Reason:             "Target user is missing or too short.",
			ImprovedTargetUser: &improved,
		}, nil
	}

	var verdict UserVerdict
	if err := oracle.InferInto(ctx, o, fmt.Sprintf(userPrompt, trimmed), &verdict); err != nil {
		return UserVerdict{}, fmt.Errorf("validate target user: %w", err)
	}
	return verdict, nil
}
