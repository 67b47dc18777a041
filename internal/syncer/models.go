package syncer

import (
	"context"
	"fmt"
)

// Mode selects which backlog a sync pass works through. Full mode
// targets attachments with no prior sync; incremental mode revisits
// attachments whose primary file is already remote and fills in missing
// derivative sizes.
type Mode string

const (
	ModeFull        Mode = "full"
	ModeIncremental Mode = "incremental"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFull, "":
		return ModeFull, nil
	case ModeIncremental:
		return ModeIncremental, nil
	default:
		return "", fmt.Errorf("unknown sync mode %q", s)
	}
}

type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeSkipped OutcomeKind = "skipped"
	OutcomeError   OutcomeKind = "error"
)

// Outcome is the result of syncing one attachment. A success with
// FailedSizes is a degraded pass: the primary went up but some
// derivatives did not, leaving the attachment for incremental mode.
type Outcome struct {
	Kind        OutcomeKind `json:"kind"`
	Message     string      `json:"message"`
	Uploaded    int         `json:"uploaded"`
	FailedSizes []string    `json:"failedSizes,omitempty"`
}

func skipped(format string, args ...interface{}) Outcome {
	return Outcome{Kind: OutcomeSkipped, Message: fmt.Sprintf(format, args...)}
}

func failure(format string, args ...interface{}) Outcome {
	return Outcome{Kind: OutcomeError, Message: fmt.Sprintf(format, args...)}
}

// Message is one per-attachment line in a batch log, shaped for direct
// display by the batch driver UI.
type Message struct {
	AssetID int64       `json:"assetId"`
	Title   string      `json:"title"`
	Kind    OutcomeKind `json:"kind"`
	Message string      `json:"message"`
}

type BatchResult struct {
	RunID     string    `json:"runId"`
	Mode      Mode      `json:"mode"`
	Offset    int       `json:"offset"`
	Processed int       `json:"processed"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Skipped   int       `json:"skipped"`
	Messages  []Message `json:"messages"`
}

type Progress struct {
	Total  int `json:"total"`
	Synced int `json:"synced"`
}

// RemoteStore is the outbound contract to the object-storage service.
type RemoteStore interface {
	IsConfigured() bool
	TestConnection(ctx context.Context) error
	Upload(ctx context.Context, absPath, relPath string) (string, error)
	Delete(ctx context.Context, mediaID string) error
	PublicURL(ctx context.Context, relPath string) string
}
