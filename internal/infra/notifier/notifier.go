// Package notifier delivers layout payloads to a chat platform.
// It defines the Notifier interface which allows different delivery mechanisms
// (Slack Web API, dry-run logging) to be used interchangeably through dependency injection.
//
// The package includes an implementation for the Slack chat.postMessage API and a
// dry-run notifier for local runs where nothing should be posted.
package notifier

import (
	"context"

	"newsie/internal/usecase/layout"
)

// Notifier is an interface for delivering one payload to one channel.
// Implementations do not retry; a failed delivery is reported to the caller.
type Notifier interface {
	// Deliver posts payload to channel.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - channel: Destination channel name or ID (e.g. "#news-results")
	//   - payload: The ordered display units to post
	//
	// Returns:
	//   - string: Platform-assigned message identifier
	//   - error: *DeliveryError for platform rejections, ErrBlockCeilingExceeded
	//     for oversized payloads, or a transport error
	Deliver(ctx context.Context, channel string, payload layout.Payload) (string, error)
}

var (
	_ Notifier = (*SlackNotifier)(nil)
	_ Notifier = (*DryRunNotifier)(nil)
)
