// Package workflow contains the pure editorial state machine. It decides
// transition legality and the resulting status; it performs no I/O and
// knows nothing about persistence or HTTP.
package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/technews/technews-backend/internal/common"
	"github.com/technews/technews-backend/internal/domain"
)

// Action is a requested workflow transition
type Action string

const (
	ActionSubmit      Action = "submit"
	ActionApprove     Action = "approve"
	ActionReject      Action = "reject"
	ActionSchedule    Action = "schedule"
	ActionAutoPublish Action = "auto_publish"
)

// Request carries the inputs the engine needs to decide one transition.
// ScheduledFor is the post's current scheduled time (AutoPublish guard);
// PublishAt is the newly requested time (Schedule only).
type Request struct {
	Action       Action
	Comment      string
	PublishAt    time.Time
	ScheduledFor *time.Time
	Now          time.Time
}

// Decision is a successful transition outcome
type Decision struct {
	From domain.PostStatus
	To   domain.PostStatus
}

// transitions maps each action to its legal source states and target state.
// Archived and Hidden exist in the data model but have no transitions.
var transitions = map[Action]struct {
	from []domain.PostStatus
	to   domain.PostStatus
}{
	ActionSubmit:      {from: []domain.PostStatus{domain.StatusDraft, domain.StatusRejected}, to: domain.StatusInReview},
	ActionApprove:     {from: []domain.PostStatus{domain.StatusInReview}, to: domain.StatusPublished},
	ActionReject:      {from: []domain.PostStatus{domain.StatusInReview}, to: domain.StatusRejected},
	ActionSchedule:    {from: []domain.PostStatus{domain.StatusDraft, domain.StatusInReview}, to: domain.StatusScheduled},
	ActionAutoPublish: {from: []domain.PostStatus{domain.StatusScheduled}, to: domain.StatusPublished},
}

// Decide validates the requested transition against the current status and
// returns the resulting decision. Failures are either ErrInvalidTransition
// (action not legal from the current status) or ErrValidation (bad input
// for an otherwise legal transition).
func Decide(current domain.PostStatus, req Request) (Decision, error) {
	t, ok := transitions[req.Action]
	if !ok {
		return Decision{}, common.InvalidTransitionError(string(current), string(req.Action))
	}

	legal := false
	for _, from := range t.from {
		if current == from {
			legal = true
			break
		}
	}
	if !legal {
		return Decision{}, common.InvalidTransitionError(string(current), string(req.Action))
	}

	switch req.Action {
	case ActionReject:
		if strings.TrimSpace(req.Comment) == "" {
			return Decision{}, common.ValidationError("a rejection comment is required")
		}
	case ActionSchedule:
		if !req.PublishAt.After(req.Now) {
			return Decision{}, common.ValidationError("scheduled publish time must be in the future")
		}
	case ActionAutoPublish:
		if req.ScheduledFor == nil {
			return Decision{}, common.ValidationError("scheduled post has no publish time")
		}
		if req.Now.Before(*req.ScheduledFor) {
			return Decision{}, common.ValidationError("scheduled publish time has not been reached")
		}
	}

	return Decision{From: current, To: t.to}, nil
}

// LogEntry builds the audit entry recording this transition. An empty
// comment is stored as NULL.
func (d Decision) LogEntry(postID uint, actorID, comment string, now time.Time) domain.WorkflowLog {
	entry := domain.WorkflowLog{
		PostID:     postID,
		FromStatus: d.From,
		ToStatus:   d.To,
		ActorID:    actorID,
		CreatedAt:  now,
	}
	if strings.TrimSpace(comment) != "" {
		entry.Comment = &comment
	}
	return entry
}

// Replay computes the status reached by applying an ordered (oldest first)
// transition log starting from draft. It fails if any entry does not chain
// from the preceding one, which would mean the audit trail is corrupt.
func Replay(entries []domain.WorkflowLog) (domain.PostStatus, error) {
	current := domain.StatusDraft
	for _, e := range entries {
		if e.FromStatus != current {
			return current, fmt.Errorf("log entry %d starts from %q but post was %q", e.ID, e.FromStatus, current)
		}
		current = e.ToStatus
	}
	return current, nil
}
