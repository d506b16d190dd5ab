package services

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edinfinite/aiworkshop-backend/internal/models"
)

var issueIDPattern = regexp.MustCompile(`^ai-workshop-cs-\d{8}-[0-9a-f]{8}$`)

func TestIssueID(t *testing.T) {
	now := time.Date(2026, 10, 16, 14, 5, 9, 123456000, time.UTC)

	id := IssueID(now, goodMessage)
	assert.Regexp(t, issueIDPattern, id)
	assert.True(t, strings.HasPrefix(id, "ai-workshop-cs-20261016-"))
	assert.Equal(t, id, IssueID(now, goodMessage), "deterministic for the same instant and content")

	assert.NotEqual(t, id, IssueID(now.Add(time.Microsecond), goodMessage))
	assert.NotEqual(t, id, IssueID(now, "A different message entirely"))

	// Only the first 50 characters feed the hash.
	long := strings.Repeat("x", 50)
	assert.Equal(t, IssueID(now, long+" tail one"), IssueID(now, long+" tail two"))
}

func TestIsoTimestamp(t *testing.T) {
	assert.Equal(t, "2026-10-16T14:05:09+00:00", isoTimestamp(time.Date(2026, 10, 16, 14, 5, 9, 0, time.UTC)))
	assert.Equal(t, "2026-10-16T14:05:09.000042+00:00", isoTimestamp(time.Date(2026, 10, 16, 14, 5, 9, 42000, time.UTC)))
}

func TestFirstRunes(t *testing.T) {
	assert.Equal(t, "héllo", firstRunes("héllo wörld", 5))
	assert.Equal(t, "short", firstRunes("short", 50))
	assert.Equal(t, "", firstRunes("abc", 0))
}

func TestRenderIssue(t *testing.T) {
	created := time.Date(2026, 10, 16, 14, 5, 9, 0, time.UTC)
	page := "/lessons/loops"

	got := RenderIssue("ai-workshop-cs-20261016-deadbeef", created, IssueDraft{
		Message:       "Contact me at [EMAIL_REDACTED] about this",
		FeedbackType:  models.FeedbackSuggestion,
		PageURL:       &page,
		PIICategories: []string{"email", "phone"},
	})

	want := `---
id: ai-workshop-cs-20261016-deadbeef
type: Enhancement
source: web-feedback
status: triage
created: 2026-10-16T14:05:09Z
page: /lessons/loops
---

# [Enhancement] User feedback from /lessons/loops

Contact me at [EMAIL_REDACTED] about this

---
*Auto-created by BEADS feedback loop*
PII redacted: email, phone
`
	assert.Equal(t, want, got)
}

func TestRenderIssue_UnknownPageNoPII(t *testing.T) {
	got := RenderIssue("id-1", time.Now(), IssueDraft{Message: "hello there world", FeedbackType: models.FeedbackBug})

	assert.Contains(t, got, "type: Bug\n")
	assert.Contains(t, got, "page: unknown\n")
	assert.Contains(t, got, "# [Bug] User feedback from unknown page\n")
	assert.True(t, strings.HasSuffix(got, "*Auto-created by BEADS feedback loop*\n"))
	assert.NotContains(t, got, "PII redacted")
}

func TestFileIssueRecorder_Record(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "beads")
	now := time.Date(2026, 10, 16, 14, 5, 9, 0, time.UTC)
	recorder := NewFileIssueRecorder(dir).WithClock(func() time.Time { return now })

	id, err := recorder.Record(context.Background(), IssueDraft{Message: goodMessage, FeedbackType: models.FeedbackGeneral})
	require.NoError(t, err)
	assert.Regexp(t, issueIDPattern, id)

	data, err := os.ReadFile(filepath.Join(dir, id+".md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "id: "+id+"\n")
	assert.Contains(t, string(data), "type: Feedback\n")
	assert.Contains(t, string(data), goodMessage)

	// Same instant and content: the existing record is kept and the call fails.
	_, err = recorder.Record(context.Background(), IssueDraft{Message: goodMessage, FeedbackType: models.FeedbackBug})
	assert.Error(t, err)
	data2, _ := os.ReadFile(filepath.Join(dir, id+".md"))
	assert.Equal(t, data, data2)
}

func TestFileIssueRecorder_Failures(t *testing.T) {
	_, err := NewFileIssueRecorder("").Record(context.Background(), IssueDraft{Message: goodMessage})
	assert.ErrorIs(t, err, ErrNoIssueDir)

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	id, err := NewFileIssueRecorder(filepath.Join(blocker, "beads")).Record(context.Background(), IssueDraft{Message: goodMessage})
	assert.Error(t, err)
	assert.Empty(t, id)
}
