package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/edinfinite/aiworkshop-backend/internal/models"
	"github.com/edinfinite/aiworkshop-backend/internal/observability"
)

const (
	// IssuePrefix starts every issue id and file name.
	IssuePrefix = "ai-workshop-cs"
	// IssueSource tags records created from the web form.
	IssueSource = "web-feedback"
	// IssueInitialStatus is the status of every new record.
	IssueInitialStatus = "triage"

	issueHashPrefixRunes = 50
	issueHashHexLen      = 8
)

// ErrNoIssueDir is returned when the recorder has no target directory.
var ErrNoIssueDir = errors.New("issue directory not configured")

// IssueDraft is the sanitized content an issue record is built from.
type IssueDraft struct {
	Message       string
	FeedbackType  models.FeedbackType
	PageURL       *string
	PIICategories []string
}

// IssueRecorder turns accepted feedback into a durable triage record.
type IssueRecorder interface {
	Record(ctx context.Context, draft IssueDraft) (string, error)
}

// FileIssueRecorder writes one markdown file per issue under Dir.
type FileIssueRecorder struct {
	Dir string
	now func() time.Time
}

func NewFileIssueRecorder(dir string) *FileIssueRecorder {
	return &FileIssueRecorder{Dir: dir, now: time.Now}
}

// WithClock replaces the recorder's time source.
func (r *FileIssueRecorder) WithClock(now func() time.Time) *FileIssueRecorder {
	r.now = now
	return r
}

// Record writes the issue file and returns its id. Existing files are never
// overwritten: an id collision is reported as an error.
func (r *FileIssueRecorder) Record(_ context.Context, draft IssueDraft) (string, error) {
	if strings.TrimSpace(r.Dir) == "" {
		observability.IssueRecords.WithLabelValues("failed").Inc()
		return "", ErrNoIssueDir
	}

	id, err := r.write(draft)
	if err != nil {
		observability.IssueRecords.WithLabelValues("failed").Inc()
		return "", err
	}
	observability.IssueRecords.WithLabelValues("created").Inc()
	return id, nil
}

func (r *FileIssueRecorder) write(draft IssueDraft) (string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create issue directory: %w", err)
	}

	now := r.now().UTC()
	id := IssueID(now, draft.Message)
	path := filepath.Join(r.Dir, id+".md")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create issue file: %w", err)
	}
	if _, err := f.WriteString(RenderIssue(id, now, draft)); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write issue file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close issue file: %w", err)
	}
	return id, nil
}

// IssueID derives <prefix>-<YYYYMMDD>-<hash> from the creation instant and the first
// 50 characters of the message. Identical messages within the same microsecond
// collide.
func IssueID(now time.Time, message string) string {
	now = now.UTC()
	sum := sha256.Sum256([]byte(isoTimestamp(now) + firstRunes(message, issueHashPrefixRunes)))
	slug := hex.EncodeToString(sum[:])[:issueHashHexLen]
	return fmt.Sprintf("%s-%s-%s", IssuePrefix, now.Format("20060102"), slug)
}

// RenderIssue produces the issue file body: a front-matter header followed by a
// markdown section with the sanitized message.
func RenderIssue(id string, created time.Time, draft IssueDraft) string {
	category := draft.FeedbackType.IssueCategory()

	page := "unknown"
	heading := "unknown page"
	if draft.PageURL != nil && *draft.PageURL != "" {
		page = *draft.PageURL
		heading = *draft.PageURL
	}

	var piiNote string
	if len(draft.PIICategories) > 0 {
		piiNote = "\nPII redacted: " + strings.Join(draft.PIICategories, ", ")
	}

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "id: %s\n", id)
	fmt.Fprintf(&b, "type: %s\n", category)
	fmt.Fprintf(&b, "source: %s\n", IssueSource)
	fmt.Fprintf(&b, "status: %s\n", IssueInitialStatus)
	fmt.Fprintf(&b, "created: %s\n", created.UTC().Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(&b, "page: %s\n", page)
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "# [%s] User feedback from %s\n\n", category, heading)
	b.WriteString(draft.Message)
	b.WriteString("\n\n---\n")
	b.WriteString("*Auto-created by BEADS feedback loop*")
	b.WriteString(piiNote)
	b.WriteString("\n")
	return b.String()
}

// isoTimestamp formats t like an ISO-8601 UTC instant with an explicit offset,
// including microseconds only when they are non-zero.
func isoTimestamp(t time.Time) string {
	if t.Nanosecond()/1000 == 0 {
		return t.Format("2006-01-02T15:04:05+00:00")
	}
	return t.Format("2006-01-02T15:04:05.000000+00:00")
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
