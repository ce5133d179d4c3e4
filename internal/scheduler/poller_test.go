package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/technews/technews-backend/internal/common"
	"github.com/technews/technews-backend/internal/domain"
)

// MockDuePostSource is a mock implementation of DuePostSource
type MockDuePostSource struct {
	mock.Mock
}

func (m *MockDuePostSource) FindScheduledDue(now time.Time) ([]domain.Post, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Post), args.Error(1)
}

// MockAutoPublisher is a mock implementation of AutoPublisher
type MockAutoPublisher struct {
	mock.Mock
}

func (m *MockAutoPublisher) AutoPublish(postID uint) (domain.PostStatus, error) {
	args := m.Called(postID)
	return args.Get(0).(domain.PostStatus), args.Error(1)
}

func duePosts(ids ...uint) []domain.Post {
	posts := make([]domain.Post, 0, len(ids))
	for _, id := range ids {
		posts = append(posts, domain.Post{ID: id, Status: domain.StatusScheduled})
	}
	return posts
}

func TestTick_PublishesAllDuePosts(t *testing.T) {
	now := time.Now()

	posts := new(MockDuePostSource)
	posts.On("FindScheduledDue", now).Return(duePosts(1, 2), nil)

	svc := new(MockAutoPublisher)
	svc.On("AutoPublish", uint(1)).Return(domain.StatusPublished, nil)
	svc.On("AutoPublish", uint(2)).Return(domain.StatusPublished, nil)

	p := NewPoller(posts, svc, time.Minute)
	p.tick(now)

	svc.AssertExpectations(t)
}

// A mid-batch failure must not abort the batch: items after the failed
// one are still processed, and the failed one is not retried in-run.
func TestTick_FailureDoesNotAbortBatch(t *testing.T) {
	now := time.Now()

	posts := new(MockDuePostSource)
	posts.On("FindScheduledDue", now).Return(duePosts(1, 2, 3, 4, 5), nil)

	svc := new(MockAutoPublisher)
	svc.On("AutoPublish", uint(1)).Return(domain.StatusPublished, nil)
	svc.On("AutoPublish", uint(2)).Return(domain.StatusPublished, nil)
	svc.On("AutoPublish", uint(3)).Return(domain.PostStatus(""), common.ErrVersionConflict)
	svc.On("AutoPublish", uint(4)).Return(domain.StatusPublished, nil)
	svc.On("AutoPublish", uint(5)).Return(domain.StatusPublished, nil)

	p := NewPoller(posts, svc, time.Minute)
	p.tick(now)

	svc.AssertExpectations(t)
	svc.AssertNumberOfCalls(t, "AutoPublish", 5)
}

func TestTick_QueryFailureIsNonFatal(t *testing.T) {
	now := time.Now()

	posts := new(MockDuePostSource)
	posts.On("FindScheduledDue", now).Return(nil, assert.AnError)

	svc := new(MockAutoPublisher)

	p := NewPoller(posts, svc, time.Minute)
	p.tick(now)

	svc.AssertNotCalled(t, "AutoPublish", mock.Anything)
}

func TestStartStop(t *testing.T) {
	posts := new(MockDuePostSource)
	posts.On("FindScheduledDue", mock.Anything).Return(duePosts(), nil)

	svc := new(MockAutoPublisher)

	p := NewPoller(posts, svc, 10*time.Millisecond)
	p.Start()
	time.Sleep(35 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop promptly")
	}
	posts.AssertCalled(t, "FindScheduledDue", mock.Anything)
}

func TestNewPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(new(MockDuePostSource), new(MockAutoPublisher), 0)
	assert.Equal(t, DefaultInterval, p.interval)
}
