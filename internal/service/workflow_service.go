package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/technews/technews-backend/internal/common"
	"github.com/technews/technews-backend/internal/domain"
	"github.com/technews/technews-backend/internal/repository"
	"github.com/technews/technews-backend/internal/workflow"
	pkgcache "github.com/technews/technews-backend/pkg/cache"
	pkglogger "github.com/technews/technews-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	// deletedUserPlaceholder is shown when an actor or author no longer exists
	deletedUserPlaceholder = "deleted user"

	// autoPublishComment is recorded on poller-driven transitions
	autoPublishComment = "Published automatically on schedule."
)

// WorkflowService orchestrates editorial transitions: it loads the post,
// authorizes the caller, asks the engine for a decision and persists the
// outcome atomically. Both human calls and the scheduled-publish poller go
// through the same path.
type WorkflowService struct {
	posts           repository.PostRepository
	logs            repository.WorkflowLogRepository
	users           repository.UserRepository
	cache           pkgcache.Service
	minScheduleLead time.Duration
	log             zerolog.Logger
}

// NewWorkflowService creates a new WorkflowService. cache may be nil when
// Redis is unavailable; minScheduleLead is the smallest accepted distance
// between now and a requested publish time.
func NewWorkflowService(
	posts repository.PostRepository,
	logs repository.WorkflowLogRepository,
	users repository.UserRepository,
	cache pkgcache.Service,
	minScheduleLead time.Duration,
) *WorkflowService {
	return &WorkflowService{
		posts:           posts,
		logs:            logs,
		users:           users,
		cache:           cache,
		minScheduleLead: minScheduleLead,
		log:             pkglogger.WithComponent("workflow"),
	}
}

// SubmitForReview moves a draft or rejected post into the review queue.
// Authors may submit their own posts; editors and admins any post.
func (s *WorkflowService) SubmitForReview(postID uint, actor domain.Actor, comment string) (domain.PostStatus, error) {
	return s.transition(postID, actor, workflow.Request{Action: workflow.ActionSubmit, Comment: comment}, nil, nil)
}

// Approve publishes a post that is in review. Editor role required.
func (s *WorkflowService) Approve(postID uint, actor domain.Actor, comment string) (domain.PostStatus, error) {
	return s.transition(postID, actor,
		workflow.Request{Action: workflow.ActionApprove, Comment: comment},
		nil,
		func(change *repository.StatusChange) {
			change.AssignedEditor = &actor.ID
		})
}

// Reject sends a post back to its author with a mandatory comment, which
// is also stored as the post's review note. Editor role required.
func (s *WorkflowService) Reject(postID uint, actor domain.Actor, comment string) (domain.PostStatus, error) {
	return s.transition(postID, actor,
		workflow.Request{Action: workflow.ActionReject, Comment: comment},
		nil,
		func(change *repository.StatusChange) {
			change.ReviewNote = &comment
			change.AssignedEditor = &actor.ID
		})
}

// Schedule queues a draft or in-review post for automatic publication at
// publishAt. Editor role required.
func (s *WorkflowService) Schedule(postID uint, actor domain.Actor, publishAt time.Time, comment string) (domain.PostStatus, error) {
	return s.transition(postID, actor,
		workflow.Request{Action: workflow.ActionSchedule, Comment: comment, PublishAt: publishAt},
		func() error {
			if s.minScheduleLead > 0 && publishAt.Before(time.Now().Add(s.minScheduleLead)) {
				return common.ValidationError("scheduled publish time must be at least " + s.minScheduleLead.String() + " from now")
			}
			return nil
		},
		func(change *repository.StatusChange) {
			change.ScheduledAt = &publishAt
			change.AssignedEditor = &actor.ID
		})
}

// AutoPublish publishes a due scheduled post on behalf of the system
// actor. Only the poller calls this; it is never routed to human callers.
func (s *WorkflowService) AutoPublish(postID uint) (domain.PostStatus, error) {
	return s.transition(postID, domain.SystemActor,
		workflow.Request{Action: workflow.ActionAutoPublish, Comment: autoPublishComment},
		nil, nil)
}

// transition runs the shared load -> authorize -> decide -> persist path.
// guard, when set, runs after authorization and before the engine; mutate
// adds operation-specific fields to the persisted change.
func (s *WorkflowService) transition(
	postID uint,
	actor domain.Actor,
	req workflow.Request,
	guard func() error,
	mutate func(*repository.StatusChange),
) (domain.PostStatus, error) {
	post, err := s.loadPost(postID)
	if err != nil {
		return "", err
	}

	// Authorization is checked before legality: an unauthorized caller
	// learns nothing about whether the transition would have been valid.
	if err := s.authorize(post, actor, req.Action); err != nil {
		return "", err
	}

	if guard != nil {
		if err := guard(); err != nil {
			return "", err
		}
	}

	req.Now = time.Now()
	req.ScheduledFor = post.ScheduledPublishAt

	decision, err := workflow.Decide(post.Status, req)
	if err != nil {
		return "", err
	}

	change := repository.StatusChange{
		PostID:          post.ID,
		ExpectedVersion: post.Version,
		To:              decision.To,
	}
	if mutate != nil {
		mutate(&change)
	}

	entry := decision.LogEntry(post.ID, actor.ID, req.Comment, req.Now)
	if err := s.posts.ApplyTransition(change, &entry); err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			return "", err
		}
		return "", common.RepositoryError(err)
	}

	s.invalidateCaches(post.ID)
	s.log.Info().
		Uint("post_id", post.ID).
		Str("from", string(decision.From)).
		Str("to", string(decision.To)).
		Str("actor", actor.ID).
		Msg("workflow transition applied")

	return decision.To, nil
}

// authorize enforces the ownership rule: privileged roles act on any post,
// authors only submit their own. The system actor bypasses the check.
func (s *WorkflowService) authorize(post *domain.Post, actor domain.Actor, action workflow.Action) error {
	if actor.ID == domain.SystemActorID {
		return nil
	}
	if actor.Role.Privileged() {
		return nil
	}
	if action == workflow.ActionSubmit && post.AuthorID == actor.ID {
		return nil
	}
	return common.ErrForbidden
}

// ListPendingReview returns the review queue, newest activity first, with
// author and category denormalized for display
func (s *WorkflowService) ListPendingReview() ([]domain.PendingReviewItem, error) {
	ctx := context.Background()
	if s.cache != nil {
		var cached []domain.PendingReviewItem
		if err := s.cache.GetPendingReview(ctx, &cached); err == nil {
			return cached, nil
		}
	}

	posts, err := s.posts.FindInReview()
	if err != nil {
		return nil, common.RepositoryError(err)
	}

	authorIDs := make([]string, 0, len(posts))
	for i := range posts {
		authorIDs = append(authorIDs, posts[i].AuthorID)
	}
	names := s.resolveNames(authorIDs)

	items := make([]domain.PendingReviewItem, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		item := domain.PendingReviewItem{
			ID:          p.ID,
			Title:       p.Title,
			Slug:        p.Slug,
			Status:      p.Status,
			Author:      displayName(names, p.AuthorID),
			SubmittedAt: p.ModifiedAt,
			ReviewNote:  p.ReviewNote,
		}
		if p.Category != nil {
			item.Category = p.Category.Name
		}
		items = append(items, item)
	}

	if s.cache != nil {
		_ = s.cache.SetPendingReview(ctx, items)
	}
	return items, nil
}

// GetHistory returns a post's transition log, newest first, with actor
// names resolved. Transitions by deleted users keep their entries with a
// placeholder name.
func (s *WorkflowService) GetHistory(postID uint) ([]domain.WorkflowLogView, error) {
	entries, err := s.logs.FindByPostID(postID)
	if err != nil {
		return nil, common.RepositoryError(err)
	}

	actorIDs := make([]string, 0, len(entries))
	for i := range entries {
		if entries[i].ActorID != domain.SystemActorID {
			actorIDs = append(actorIDs, entries[i].ActorID)
		}
	}
	names := s.resolveNames(actorIDs)

	views := make([]domain.WorkflowLogView, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		actor := domain.SystemActorID
		if e.ActorID != domain.SystemActorID {
			actor = displayName(names, e.ActorID)
		}
		views = append(views, domain.WorkflowLogView{
			ID:         e.ID,
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			Actor:      actor,
			Comment:    e.Comment,
			CreatedAt:  e.CreatedAt,
		})
	}
	return views, nil
}

// loadPost maps storage errors into the service taxonomy
func (s *WorkflowService) loadPost(postID uint) (*domain.Post, error) {
	post, err := s.posts.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.RepositoryError(err)
	}
	return post, nil
}

// resolveNames looks up display names, tolerating lookup failure: audit
// views must render even when the users table is unreachable
func (s *WorkflowService) resolveNames(userIDs []string) map[string]string {
	if len(userIDs) == 0 {
		return map[string]string{}
	}
	names, err := s.users.FindNamesByIDs(userIDs)
	if err != nil {
		s.log.Warn().Err(err).Msg("user name lookup failed, using placeholders")
		return map[string]string{}
	}
	return names
}

func (s *WorkflowService) invalidateCaches(postID uint) {
	if s.cache == nil {
		return
	}
	ctx := context.Background()
	_ = s.cache.InvalidatePendingReview(ctx)
	_ = s.cache.InvalidateHistory(ctx, postID)
}

func displayName(names map[string]string, userID string) string {
	if name, ok := names[userID]; ok {
		return name
	}
	return deletedUserPlaceholder
}
