package notifier

import (
	"fmt"

	"github.com/slack-go/slack"

	"newsie/internal/usecase/layout"
)

// DefaultBlockCeiling is the maximum number of blocks Slack accepts in one message.
const DefaultBlockCeiling = 50

// BuildBlocks maps payload units to Slack Block Kit blocks, preserving order.
//
// Mapping:
//   - Header  -> header block with plain_text
//   - Divider -> divider block
//   - Content -> section block with mrkdwn text and an optional image accessory
//   - Action  -> actions block holding one URL button
func BuildBlocks(payload layout.Payload) ([]slack.Block, error) {
	blocks := make([]slack.Block, 0, len(payload.Units))
	for i, u := range payload.Units {
		switch unit := u.(type) {
		case layout.Header:
			blocks = append(blocks, slack.NewHeaderBlock(plainText(unit.Text)))
		case layout.Divider:
			blocks = append(blocks, slack.NewDividerBlock())
		case layout.Content:
			var accessory *slack.Accessory
			if unit.HasImage() {
				accessory = slack.NewAccessory(slack.NewImageBlockElement(unit.ImageURL, unit.AltText))
			}
			blocks = append(blocks, slack.NewSectionBlock(markdownText(unit.Text), nil, accessory))
		case layout.Action:
			button := slack.NewButtonBlockElement("", unit.Value, plainText(unit.Label))
			button.URL = unit.URL
			blocks = append(blocks, slack.NewActionBlock("", button))
		default:
			return nil, fmt.Errorf("build blocks: unit %d: unsupported unit %T", i, u)
		}
	}
	return blocks, nil
}

func plainText(s string) *slack.TextBlockObject {
	return &slack.TextBlockObject{Type: slack.PlainTextType, Text: s}
}

func markdownText(s string) *slack.TextBlockObject {
	return &slack.TextBlockObject{Type: slack.MarkdownType, Text: s}
}

// checkCeiling rejects payloads larger than ceiling. A ceiling <= 0 disables the check.
func checkCeiling(payload layout.Payload, ceiling int) error {
	if ceiling > 0 && payload.Len() > ceiling {
		return &CeilingError{Units: payload.Len(), Ceiling: ceiling}
	}
	return nil
}
