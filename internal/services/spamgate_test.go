package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edinfinite/aiworkshop-backend/internal/models"
	"github.com/edinfinite/aiworkshop-backend/internal/observability"
)

const goodMessage = "The new unit on loops is great but could use more examples"

type failingLedger struct{}

func (failingLedger) Acquire(context.Context, string, time.Time) (bool, error) {
	return false, errors.New("connection refused")
}

func (failingLedger) Window() time.Duration { return time.Minute }

func newTestGate(now time.Time) (*SpamGate, *MemoryCooldownLedger) {
	ledger := NewMemoryCooldownLedger(30 * time.Second)
	gate := NewSpamGate(ledger, observability.NewNopLogger()).WithClock(func() time.Time { return now })
	return gate, ledger
}

func epoch(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func TestSpamGate_Order(t *testing.T) {
	gate, _ := newTestGate(time.Now())
	assert.Equal(t, []string{CheckHoneypot, CheckTiming, CheckCooldown, CheckMinLength, CheckContentQuality}, gate.Checks())
}

func TestSpamGate_Evaluate(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		sub   models.FeedbackSubmission
		check string
		kind  RejectionKind
	}{
		{
			name: "valid submission passes",
			sub:  models.FeedbackSubmission{Message: goodMessage, OpenedAt: epoch(now.Add(-5 * time.Second))},
		},
		{
			name: "opened_at zero skips timing",
			sub:  models.FeedbackSubmission{Message: goodMessage},
		},
		{
			name:  "honeypot rejected regardless of content",
			sub:   models.FeedbackSubmission{Message: goodMessage, Honeypot: "filled"},
			check: CheckHoneypot,
		},
		{
			name:  "submitted too fast",
			sub:   models.FeedbackSubmission{Message: goodMessage, OpenedAt: epoch(now.Add(-2 * time.Second))},
			check: CheckTiming,
		},
		{
			name:  "opened_at in the future",
			sub:   models.FeedbackSubmission{Message: goodMessage, OpenedAt: epoch(now.Add(time.Minute))},
			check: CheckTiming,
		},
		{
			name:  "nine characters after trim",
			sub:   models.FeedbackSubmission{Message: "   123456789   "},
			check: CheckMinLength,
		},
		{
			name:  "single-letter noise",
			sub:   models.FeedbackSubmission{Message: "a b c d e f g h i j k"},
			check: CheckContentQuality,
		},
		{
			name:  "two real words",
			sub:   models.FeedbackSubmission{Message: "aaaaaaaaaa bbbbbbbbbb"},
			check: CheckContentQuality,
		},
		{
			name: "ten characters and three words",
			sub:  models.FeedbackSubmission{Message: "ab cd efgh"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gate, _ := newTestGate(now)
			rej := gate.Evaluate(context.Background(), &tc.sub, "10.0.0.1")
			if tc.check == "" {
				assert.Nil(t, rej)
				return
			}
			require.NotNil(t, rej)
			assert.Equal(t, tc.check, rej.Check)
			assert.Equal(t, tc.kind, rej.Kind)
			assert.NotEmpty(t, rej.Error())
		})
	}
}

func TestSpamGate_HoneypotBeforeCooldown(t *testing.T) {
	now := time.Now()
	gate, ledger := newTestGate(now)

	rej := gate.Evaluate(context.Background(), &models.FeedbackSubmission{Message: goodMessage, Honeypot: "x"}, "10.0.0.1")
	require.NotNil(t, rej)
	assert.Equal(t, CheckHoneypot, rej.Check)
	assert.Equal(t, 0, ledger.Len(), "checks before cooldown must not touch the ledger")
}

func TestSpamGate_CooldownWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	ledger := NewMemoryCooldownLedger(30 * time.Second)
	clock := now
	gate := NewSpamGate(ledger, observability.NewNopLogger()).WithClock(func() time.Time { return clock })

	sub := &models.FeedbackSubmission{Message: goodMessage}
	assert.Nil(t, gate.Evaluate(ctx, sub, "10.0.0.1"))

	clock = now.Add(5 * time.Second)
	rej := gate.Evaluate(ctx, sub, "10.0.0.1")
	require.NotNil(t, rej)
	assert.Equal(t, RejectionThrottled, rej.Kind)
	assert.Equal(t, CheckCooldown, rej.Check)
	assert.Equal(t, 30*time.Second, rej.RetryAfter)
	assert.Equal(t, "Please wait before submitting again.", rej.Reason)

	assert.Nil(t, gate.Evaluate(ctx, sub, "10.0.0.2"), "other sources are unaffected")

	clock = now.Add(30 * time.Second)
	assert.Nil(t, gate.Evaluate(ctx, sub, "10.0.0.1"), "accepted again after the window")
}

func TestSpamGate_ContentFailureStillConsumesCooldown(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	gate, _ := newTestGate(now)

	rej := gate.Evaluate(ctx, &models.FeedbackSubmission{Message: "too short"}, "10.0.0.1")
	require.NotNil(t, rej)
	assert.Equal(t, CheckMinLength, rej.Check)

	rej = gate.Evaluate(ctx, &models.FeedbackSubmission{Message: goodMessage}, "10.0.0.1")
	require.NotNil(t, rej)
	assert.Equal(t, CheckCooldown, rej.Check)
}

func TestSpamGate_LedgerFailureFailsOpen(t *testing.T) {
	gate := NewSpamGate(failingLedger{}, observability.NewNopLogger())
	assert.Nil(t, gate.Evaluate(context.Background(), &models.FeedbackSubmission{Message: goodMessage}, "10.0.0.1"))
}

func TestCountRealWords(t *testing.T) {
	assert.Equal(t, 0, CountRealWords(""))
	assert.Equal(t, 0, CountRealWords("a b c"))
	assert.Equal(t, 2, CountRealWords("aaa bbb"))
	assert.Equal(t, 3, CountRealWords("  héé  \tço\nüber  x "))
	assert.Equal(t, 12, CountRealWords(strings.TrimSpace(goodMessage)))
}
