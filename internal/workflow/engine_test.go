package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/technews/technews-backend/internal/common"
	"github.com/technews/technews-backend/internal/domain"
)

func TestDecide_Transitions(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(2 * time.Hour)
	past := now.Add(-time.Minute)

	tests := []struct {
		name    string
		current domain.PostStatus
		req     Request
		wantTo  domain.PostStatus
		wantErr error
	}{
		{
			name:    "submit from draft",
			current: domain.StatusDraft,
			req:     Request{Action: ActionSubmit, Now: now},
			wantTo:  domain.StatusInReview,
		},
		{
			name:    "submit from rejected",
			current: domain.StatusRejected,
			req:     Request{Action: ActionSubmit, Now: now},
			wantTo:  domain.StatusInReview,
		},
		{
			name:    "submit from published is illegal",
			current: domain.StatusPublished,
			req:     Request{Action: ActionSubmit, Now: now},
			wantErr: common.ErrInvalidTransition,
		},
		{
			name:    "approve from in_review",
			current: domain.StatusInReview,
			req:     Request{Action: ActionApprove, Now: now},
			wantTo:  domain.StatusPublished,
		},
		{
			name:    "approve from draft is illegal",
			current: domain.StatusDraft,
			req:     Request{Action: ActionApprove, Now: now},
			wantErr: common.ErrInvalidTransition,
		},
		{
			name:    "reject with comment",
			current: domain.StatusInReview,
			req:     Request{Action: ActionReject, Comment: "needs sources", Now: now},
			wantTo:  domain.StatusRejected,
		},
		{
			name:    "reject without comment",
			current: domain.StatusInReview,
			req:     Request{Action: ActionReject, Now: now},
			wantErr: common.ErrValidation,
		},
		{
			name:    "reject with whitespace comment",
			current: domain.StatusInReview,
			req:     Request{Action: ActionReject, Comment: "   \t", Now: now},
			wantErr: common.ErrValidation,
		},
		{
			name:    "schedule from draft",
			current: domain.StatusDraft,
			req:     Request{Action: ActionSchedule, PublishAt: future, Now: now},
			wantTo:  domain.StatusScheduled,
		},
		{
			name:    "schedule from in_review",
			current: domain.StatusInReview,
			req:     Request{Action: ActionSchedule, PublishAt: future, Now: now},
			wantTo:  domain.StatusScheduled,
		},
		{
			name:    "schedule with past time",
			current: domain.StatusDraft,
			req:     Request{Action: ActionSchedule, PublishAt: past, Now: now},
			wantErr: common.ErrValidation,
		},
		{
			name:    "schedule with exactly now",
			current: domain.StatusDraft,
			req:     Request{Action: ActionSchedule, PublishAt: now, Now: now},
			wantErr: common.ErrValidation,
		},
		{
			name:    "schedule from rejected is illegal",
			current: domain.StatusRejected,
			req:     Request{Action: ActionSchedule, PublishAt: future, Now: now},
			wantErr: common.ErrInvalidTransition,
		},
		{
			name:    "auto publish when due",
			current: domain.StatusScheduled,
			req:     Request{Action: ActionAutoPublish, ScheduledFor: &past, Now: now},
			wantTo:  domain.StatusPublished,
		},
		{
			name:    "auto publish exactly at publish time",
			current: domain.StatusScheduled,
			req:     Request{Action: ActionAutoPublish, ScheduledFor: &now, Now: now},
			wantTo:  domain.StatusPublished,
		},
		{
			name:    "auto publish before publish time",
			current: domain.StatusScheduled,
			req:     Request{Action: ActionAutoPublish, ScheduledFor: &future, Now: now},
			wantErr: common.ErrValidation,
		},
		{
			name:    "auto publish without schedule",
			current: domain.StatusScheduled,
			req:     Request{Action: ActionAutoPublish, Now: now},
			wantErr: common.ErrValidation,
		},
		{
			name:    "auto publish from published is illegal",
			current: domain.StatusPublished,
			req:     Request{Action: ActionAutoPublish, ScheduledFor: &past, Now: now},
			wantErr: common.ErrInvalidTransition,
		},
		{
			name:    "archived has no transitions",
			current: domain.StatusArchived,
			req:     Request{Action: ActionSubmit, Now: now},
			wantErr: common.ErrInvalidTransition,
		},
		{
			name:    "unknown action",
			current: domain.StatusDraft,
			req:     Request{Action: Action("delete"), Now: now},
			wantErr: common.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Decide(tt.current, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.current, d.From)
			assert.Equal(t, tt.wantTo, d.To)
		})
	}
}

func TestDecide_InvalidTransitionNamesPair(t *testing.T) {
	_, err := Decide(domain.StatusPublished, Request{Action: ActionApprove})
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "approve")
	assert.Contains(t, err.Error(), "published")
}

func TestLogEntry(t *testing.T) {
	now := time.Now()
	d := Decision{From: domain.StatusInReview, To: domain.StatusRejected}

	entry := d.LogEntry(9, "ed1", "needs sources", now)
	assert.Equal(t, uint(9), entry.PostID)
	assert.Equal(t, domain.StatusInReview, entry.FromStatus)
	assert.Equal(t, domain.StatusRejected, entry.ToStatus)
	assert.Equal(t, "ed1", entry.ActorID)
	if assert.NotNil(t, entry.Comment) {
		assert.Equal(t, "needs sources", *entry.Comment)
	}

	noComment := d.LogEntry(9, "ed1", "  ", now)
	assert.Nil(t, noComment.Comment)
}

func TestReplay(t *testing.T) {
	entries := []domain.WorkflowLog{
		{ID: 1, FromStatus: domain.StatusDraft, ToStatus: domain.StatusInReview},
		{ID: 2, FromStatus: domain.StatusInReview, ToStatus: domain.StatusRejected},
		{ID: 3, FromStatus: domain.StatusRejected, ToStatus: domain.StatusInReview},
		{ID: 4, FromStatus: domain.StatusInReview, ToStatus: domain.StatusPublished},
	}

	status, err := Replay(entries)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, status)
}

func TestReplay_Empty(t *testing.T) {
	status, err := Replay(nil)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, status)
}

func TestReplay_BrokenChain(t *testing.T) {
	entries := []domain.WorkflowLog{
		{ID: 1, FromStatus: domain.StatusDraft, ToStatus: domain.StatusInReview},
		{ID: 2, FromStatus: domain.StatusScheduled, ToStatus: domain.StatusPublished},
	}

	_, err := Replay(entries)
	assert.Error(t, err)
}

// Every successful engine decision must replay: applying the produced log
// entry to the source status yields the decided target status.
func TestReplayMatchesDecisions(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)

	steps := []Request{
		{Action: ActionSubmit, Now: now},
		{Action: ActionReject, Comment: "too thin", Now: now},
		{Action: ActionSubmit, Now: now},
		{Action: ActionSchedule, PublishAt: future, Now: now},
		{Action: ActionAutoPublish, ScheduledFor: &now, Now: future},
	}

	current := domain.StatusDraft
	var log []domain.WorkflowLog
	for _, req := range steps {
		d, err := Decide(current, req)
		assert.NoError(t, err)
		log = append(log, d.LogEntry(1, "u1", req.Comment, now))
		current = d.To
	}

	replayed, err := Replay(log)
	assert.NoError(t, err)
	assert.Equal(t, current, replayed)
	assert.Equal(t, domain.StatusPublished, replayed)
}
