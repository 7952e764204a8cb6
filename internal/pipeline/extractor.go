package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/driftlab/driftwatch/internal/models"
	"github.com/driftlab/driftwatch/internal/oracle"
)

const extractPrompt = `You are an expert startup analyst.
Analyze the following text from a founder describing their startup idea and
extract key information into structured JSON.

Input text:
%q

Extract these fields (leave a field null when the text does not cover it,
never invent content):
- problem: the core problem they are solving
- target_user: who they think the user is, close to their words
- job_to_be_done: what the user is trying to achieve
- solution: the proposed solution
- value_prop: the core value proposition
- primary_channel_type: one of [%s], the most dominant one mentioned, or null
- primary_channel_description: specific details about that channel
- hypothesis: their core hypothesis if stated
- metric: key metric they mentioned or implied
- timeframe: timeframe they mentioned or implied
- tech_feasibility_notes: any technical risks or notes
- top_risks: list of top risks
- declared_next_steps: list of next steps they mentioned`

type extractReply struct {
	Problem                   *string  `json:"problem"`
	TargetUser                *string  `json:"target_user"`
	JobToBeDone               *string  `json:"job_to_be_done"`
	Solution                  *string  `json:"solution"`
	ValueProp                 *string  `json:"value_prop"`
	PrimaryChannelType        *string  `json:"primary_channel_type"`
	PrimaryChannelDescription *string  `json:"primary_channel_description"`
	Hypothesis                *string  `json:"hypothesis"`
	Metric                    *string  `json:"metric"`
	Timeframe                 *string  `json:"timeframe"`
	TechFeasibilityNotes      *string  `json:"tech_feasibility_notes"`
	TopRisks                  []string `json:"top_risks"`
	DeclaredNextSteps         []string `json:"declared_next_steps"`
}

// ExtractSnapshot asks the oracle for a structured reading of the founder's
// text and builds an unpersisted draft snapshot at currentVersion+1. An
// oracle failure aborts the whole request; no partial snapshot survives.
func ExtractSnapshot(ctx context.Context, o oracle.Oracle, startupID, inputText string, currentVersion int, now time.Time) (models.Snapshot, error) {
	prompt := fmt.Sprintf(extractPrompt, inputText, channelEnumList())

	var reply extractReply
	if err := oracle.InferInto(ctx, o, prompt, &reply); err != nil {
		return models.Snapshot{}, fmt.Errorf("extract snapshot: %w", err)
	}

	snap := models.Snapshot{
		StartupID: startupID,
		Version:   currentVersion + 1,
		Timestamp: now.UTC(),

		Problem:     reply.Problem,
		TargetUser:  reply.TargetUser,
		JobToBeDone: reply.JobToBeDone,
		Solution:    reply.Solution,
		ValueProp:   reply.ValueProp,

		PrimaryChannelDescription: reply.PrimaryChannelDescription,

		Hypothesis: reply.Hypothesis,
		Metric:     reply.Metric,
		Timeframe:  reply.Timeframe,

		TechFeasibilityNotes: reply.TechFeasibilityNotes,
		TopRisks:             reply.TopRisks,
		DeclaredNextSteps:    reply.DeclaredNextSteps,
	}

	// Unknown enum values are normalized to null, never raised.
	if reply.PrimaryChannelType != nil {
		if ct, ok := models.ParseChannelType(*reply.PrimaryChannelType); ok {
			snap.PrimaryChannelType = &ct
		}
	}

	return snap, nil
}

func channelEnumList() string {
	types := models.ChannelTypes()
	quoted := make([]string, len(types))
	for i, ct := range types {
		quoted[i] = fmt.Sprintf("%q", string(ct))
	}
	return strings.Join(quoted, ", ")
}
