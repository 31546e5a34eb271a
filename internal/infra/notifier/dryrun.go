package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"newsie/internal/usecase/layout"
)

// DryRunNotifier renders payloads to Block Kit JSON and logs them instead of posting.
// It is used when delivery is disabled to avoid null checks in the code.
// This follows the Null Object pattern.
type DryRunNotifier struct {
	out     io.Writer
	ceiling int
	seq     atomic.Int64

	mu sync.Mutex // guards out
}

// NewDryRunNotifier creates a DryRunNotifier. When out is non-nil the block
// JSON is also written there, one payload per line.
func NewDryRunNotifier(out io.Writer, ceiling int) *DryRunNotifier {
	if ceiling == 0 {
		ceiling = DefaultBlockCeiling
	}
	return &DryRunNotifier{out: out, ceiling: ceiling}
}

// Deliver builds the blocks, logs them and returns a synthetic id "dry-run-<n>".
// The ceiling is enforced the same way as for real delivery.
func (n *DryRunNotifier) Deliver(ctx context.Context, channel string, payload layout.Payload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkCeiling(payload, n.ceiling); err != nil {
		return "", err
	}

	blocks, err := BuildBlocks(payload)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(blocks)
	if err != nil {
		return "", fmt.Errorf("marshal blocks: %w", err)
	}

	id := fmt.Sprintf("dry-run-%d", n.seq.Add(1))

	slog.Info("Dry run: payload not sent",
		slog.String("id", id),
		slog.String("channel", channel),
		slog.String("query", payload.QueryName),
		slog.Int("payload_index", payload.Index),
		slog.Int("blocks", len(blocks)))

	if n.out != nil {
		n.mu.Lock()
		_, err := fmt.Fprintf(n.out, "%s %s\n", channel, data)
		n.mu.Unlock()
		if err != nil {
			return "", fmt.Errorf("write dry-run output: %w", err)
		}
	}

	return id, nil
}
