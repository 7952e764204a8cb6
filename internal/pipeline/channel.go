package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/driftlab/driftwatch/internal/models"
	"github.com/driftlab/driftwatch/internal/oracle"
)

const channelPrompt = `Analyze this distribution strategy: %q

Allowed channel types: [%s]

Task:
1. Identify the ONE primary channel type.
2. Extract a specific, executable description for it.
3. List any other channels mentioned as "other_channels".
4. Flag issues when the description is vague (e.g. "go viral",
   "social media" without platform or strategy).

Reply with JSON:
{
  "primary_channel_type": "enum value or null",
  "primary_channel_description": "string",
  "other_channels": ["string"],
  "issues": ["string"]
}`

// ChannelVerdict is the channel enforcer's report. Its channel type and
// description are the single source of truth for those two snapshot fields
// after enforcement.
type ChannelVerdict struct {
	PrimaryChannelType        *models.ChannelType `json:"primary_channel_type"`
	PrimaryChannelDescription *string             `json:"primary_channel_description"`
	OtherChannels             []string            `json:"other_channels"`
	Issues                    []string            `json:"issues"`
}

type channelReply struct {
	PrimaryChannelType        *string  `json:"primary_channel_type"`
	PrimaryChannelDescription *string  `json:"primary_channel_description"`
	OtherChannels             []string `json:"other_channels"`
	Issues                    []string `json:"issues"`
}

// EnforceChannel folds the channel dimension over the draft: it judges the
// draft's channel description (falling back to the raw founder text),
// overwrites the draft's channel fields with the verdict, and returns the
// new draft. Empty input short-circuits without an oracle call.
func EnforceChannel(ctx context.Context, o oracle.Oracle, snap models.Snapshot, rawInput string) (models.Snapshot, ChannelVerdict, error) {
	text := rawInput
	if snap.PrimaryChannelDescription != nil && strings.TrimSpace(*snap.PrimaryChannelDescription) != "" {
		text = *snap.PrimaryChannelDescription
	}
	if strings.TrimSpace(text) == "" {
		verdict := ChannelVerdict{Issues: []string{"No distribution channel defined."}}
		snap.PrimaryChannelType = nil
		snap.PrimaryChannelDescription = nil
		return snap, verdict, nil
	}

	var reply channelReply
	prompt := fmt.Sprintf(channelPrompt, text, channelEnumList())
	if err := oracle.InferInto(ctx, o, prompt, &reply); err != nil {
		return models.Snapshot{}, ChannelVerdict{}, fmt.Errorf("enforce channel: %w", err)
	}

	verdict := ChannelVerdict{
		PrimaryChannelDescription: reply.PrimaryChannelDescription,
		OtherChannels:             reply.OtherChannels,
		Issues:                    reply.Issues,
	}
	// Unknown enum values collapse to nil rather than erroring.
	if reply.PrimaryChannelType != nil {
		if ct, ok := models.ParseChannelType(*reply.PrimaryChannelType); ok {
			verdict.PrimaryChannelType = &ct
		}
	}

	snap.PrimaryChannelType = verdict.PrimaryChannelType
	snap.PrimaryChannelDescription = verdict.PrimaryChannelDescription
	return snap, verdict, nil
}
