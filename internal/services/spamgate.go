package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/edinfinite/aiworkshop-backend/internal/models"
	"github.com/edinfinite/aiworkshop-backend/internal/observability"
)

const (
	// MinFormFillTime is how long a form must have been open before it can be submitted.
	MinFormFillTime = 3 * time.Second
	// MinMessageLength is the minimum trimmed message length, in characters.
	MinMessageLength = 10
	// MinRealWords is the minimum number of whitespace tokens longer than one character.
	MinRealWords = 3
)

// Spam gate check names, also used as metric labels.
const (
	CheckHoneypot       = "honeypot"
	CheckTiming         = "timing"
	CheckCooldown       = "cooldown"
	CheckMinLength      = "min_length"
	CheckContentQuality = "content_quality"
)

// RejectionKind separates malformed submissions from throttled ones.
type RejectionKind int

const (
	RejectionValidation RejectionKind = iota
	RejectionThrottled
)

// Rejection is returned by the first spam check that fails. Reason is safe to show
// to the user.
type Rejection struct {
	Kind       RejectionKind
	Check      string
	Reason     string
	RetryAfter time.Duration // only set for throttled rejections
}

func (r *Rejection) Error() string {
	return r.Reason
}

// CheckInput is what every spam check sees for one submission.
type CheckInput struct {
	Submission *models.FeedbackSubmission
	Source     string
	Now        time.Time
}

// SpamCheck is one independent predicate in the gate. A nil result means pass.
type SpamCheck interface {
	Name() string
	Check(ctx context.Context, in *CheckInput) *Rejection
}

type checkFunc struct {
	name string
	fn   func(ctx context.Context, in *CheckInput) *Rejection
}

func (c checkFunc) Name() string { return c.name }

func (c checkFunc) Check(ctx context.Context, in *CheckInput) *Rejection {
	return c.fn(ctx, in)
}

func invalid(check, reason string) *Rejection {
	return &Rejection{Kind: RejectionValidation, Check: check, Reason: reason}
}

// HoneypotCheck rejects submissions that filled the hidden trap field.
func HoneypotCheck() SpamCheck {
	return checkFunc{name: CheckHoneypot, fn: func(_ context.Context, in *CheckInput) *Rejection {
		if in.Submission.Honeypot != "" {
			return invalid(CheckHoneypot, "Invalid submission.")
		}
		return nil
	}}
}

// TimingCheck rejects forms submitted less than min after they were opened. A zero
// opened_at means the client did not report it and the check is skipped.
func TimingCheck(min time.Duration) SpamCheck {
	return checkFunc{name: CheckTiming, fn: func(_ context.Context, in *CheckInput) *Rejection {
		openedAt := in.Submission.OpenedAt
		if openedAt <= 0 {
			return nil
		}
		now := float64(in.Now.UnixNano()) / float64(time.Second)
		if now-openedAt < min.Seconds() {
			return invalid(CheckTiming, "Please take a moment to write your feedback.")
		}
		return nil
	}}
}

// CooldownCheck enforces one accepted submission per source per ledger window. If the
// ledger backend fails the check lets the submission through.
func CooldownCheck(ledger CooldownLedger, logger *observability.Logger) SpamCheck {
	return checkFunc{name: CheckCooldown, fn: func(ctx context.Context, in *CheckInput) *Rejection {
		ok, err := ledger.Acquire(ctx, in.Source, in.Now)
		if err != nil {
			logger.Warn("cooldown ledger unavailable, allowing submission",
				zap.String("ip_address", in.Source), zap.Error(err))
			return nil
		}
		if !ok {
			return &Rejection{
				Kind:       RejectionThrottled,
				Check:      CheckCooldown,
				Reason:     "Please wait before submitting again.",
				RetryAfter: ledger.Window(),
			}
		}
		return nil
	}}
}

// MinLengthCheck rejects messages shorter than min characters once trimmed.
func MinLengthCheck(min int) SpamCheck {
	return checkFunc{name: CheckMinLength, fn: func(_ context.Context, in *CheckInput) *Rejection {
		if utf8.RuneCountInString(strings.TrimSpace(in.Submission.Message)) < min {
			return invalid(CheckMinLength, "Please provide more detail (at least 10 characters).")
		}
		return nil
	}}
}

// ContentQualityCheck rejects messages with fewer than min tokens longer than one
// character, which catches keyboard mashing like "a a a a a a".
func ContentQualityCheck(min int) SpamCheck {
	return checkFunc{name: CheckContentQuality, fn: func(_ context.Context, in *CheckInput) *Rejection {
		if CountRealWords(in.Submission.Message) < min {
			return invalid(CheckContentQuality, "Please write a more descriptive message.")
		}
		return nil
	}}
}

// CountRealWords counts whitespace-separated tokens longer than one character.
func CountRealWords(message string) int {
	n := 0
	for _, w := range strings.Fields(message) {
		if utf8.RuneCountInString(w) > 1 {
			n++
		}
	}
	return n
}

// SpamGate runs its checks in order and stops at the first rejection.
type SpamGate struct {
	checks []SpamCheck
	now    func() time.Time
}

// NewSpamGate builds the standard gate: honeypot, timing, cooldown, length, quality.
// Cooldown runs before the content checks, so a request that passes the cooldown but
// fails on content still starts a new window for its source.
func NewSpamGate(ledger CooldownLedger, logger *observability.Logger) *SpamGate {
	return NewSpamGateWithChecks(
		HoneypotCheck(),
		TimingCheck(MinFormFillTime),
		CooldownCheck(ledger, logger),
		MinLengthCheck(MinMessageLength),
		ContentQualityCheck(MinRealWords),
	)
}

func NewSpamGateWithChecks(checks ...SpamCheck) *SpamGate {
	return &SpamGate{checks: checks, now: time.Now}
}

// WithClock replaces the gate's time source.
func (g *SpamGate) WithClock(now func() time.Time) *SpamGate {
	g.now = now
	return g
}

// Checks returns the check names in evaluation order.
func (g *SpamGate) Checks() []string {
	names := make([]string, len(g.checks))
	for i, c := range g.checks {
		names[i] = c.Name()
	}
	return names
}

// Evaluate returns nil if the submission passes every check.
func (g *SpamGate) Evaluate(ctx context.Context, sub *models.FeedbackSubmission, source string) *Rejection {
	in := &CheckInput{Submission: sub, Source: source, Now: g.now()}
	for _, c := range g.checks {
		if rej := c.Check(ctx, in); rej != nil {
			observability.FeedbackRejections.WithLabelValues(c.Name()).Inc()
			return rej
		}
	}
	return nil
}
