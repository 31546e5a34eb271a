package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/slack-go/slack"

	"newsie/internal/usecase/layout"
)

const (
	// FallbackText is shown in notifications and clients that cannot render blocks.
	FallbackText = "Newsie Incoming!"

	DefaultBotName   = "Newsie"
	DefaultIconEmoji = ":newspaper:"
)

// SlackConfig contains configuration for Slack Web API delivery.
type SlackConfig struct {
	// Token is the bot token (xoxb-...) used for chat.postMessage
	Token string

	// APIURL overrides the Slack API base URL. Empty uses slack.APIURL.
	APIURL string

	// BotName is the display name the message is posted under
	BotName string

	// IconEmoji is the sender icon, e.g. ":newspaper:"
	IconEmoji string

	// BlockCeiling is the maximum number of blocks per message
	BlockCeiling int

	// Timeout is the HTTP request timeout for Slack API calls
	Timeout time.Duration
}

// SlackNotifier posts payloads to Slack via chat.postMessage.
type SlackNotifier struct {
	config SlackConfig
	client *slack.Client
}

// NewSlackNotifier creates a new SlackNotifier with the specified configuration.
//
// Empty BotName, IconEmoji and BlockCeiling fall back to DefaultBotName,
// DefaultIconEmoji and DefaultBlockCeiling.
//
// Parameters:
//   - config: Slack configuration including bot token and timeout
//
// Returns:
//   - *SlackNotifier: Configured Slack notifier instance
func NewSlackNotifier(config SlackConfig) *SlackNotifier {
	if config.BotName == "" {
		config.BotName = DefaultBotName
	}
	if config.IconEmoji == "" {
		config.IconEmoji = DefaultIconEmoji
	}
	if config.BlockCeiling == 0 {
		config.BlockCeiling = DefaultBlockCeiling
	}

	opts := []slack.Option{
		slack.OptionHTTPClient(&http.Client{Timeout: config.Timeout}),
	}
	if config.APIURL != "" {
		if !strings.HasSuffix(config.APIURL, "/") {
			config.APIURL += "/"
		}
		opts = append(opts, slack.OptionAPIURL(config.APIURL))
	}

	return &SlackNotifier{
		config: config,
		client: slack.New(config.Token, opts...),
	}
}

// Deliver posts payload to channel and returns the message timestamp.
// This method implements the Notifier interface.
//
// It performs the following steps:
//  1. Generate unique request_id for tracing
//  2. Reject payloads above the block ceiling without a network call
//  3. Map units to Block Kit blocks
//  4. Post once; Slack errors are returned as *DeliveryError
func (s *SlackNotifier) Deliver(ctx context.Context, channel string, payload layout.Payload) (string, error) {
	requestID := uuid.New().String()
	ctx = context.WithValue(ctx, requestIDKey, requestID)

	if err := checkCeiling(payload, s.config.BlockCeiling); err != nil {
		slog.Error("Slack payload rejected before send",
			slog.String("request_id", requestID),
			slog.String("channel", channel),
			slog.String("query", payload.QueryName),
			slog.Int("payload_index", payload.Index),
			slog.Any("error", err))
		return "", err
	}

	blocks, err := BuildBlocks(payload)
	if err != nil {
		return "", fmt.Errorf("deliver payload %d: %w", payload.Index, err)
	}

	slog.Debug("Posting Slack message",
		slog.String("request_id", requestID),
		slog.String("channel", channel),
		slog.String("query", payload.QueryName),
		slog.Int("payload_index", payload.Index),
		slog.Int("blocks", len(blocks)))

	_, ts, err := s.client.PostMessageContext(ctx, channel,
		slack.MsgOptionText(FallbackText, false),
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionUsername(s.config.BotName),
		slack.MsgOptionIconEmoji(s.config.IconEmoji),
	)
	if err != nil {
		deliveryErr := classifySlackError(err)
		slog.Error("Slack notification failed",
			slog.String("request_id", requestID),
			slog.String("channel", channel),
			slog.String("query", payload.QueryName),
			slog.Int("payload_index", payload.Index),
			slog.Any("error", deliveryErr))
		return "", deliveryErr
	}

	slog.Info("Slack notification successful",
		slog.String("request_id", requestID),
		slog.String("channel", channel),
		slog.String("query", payload.QueryName),
		slog.Int("payload_index", payload.Index),
		slog.String("ts", ts))

	return ts, nil
}
