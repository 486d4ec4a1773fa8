package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"webclone/internal/domain/entity"
	"webclone/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazyLoad_ScrollsInOverlappingSteps(t *testing.T) {
	session := newFakeSession()
	session.viewport = 1000
	session.heights = []int{3000}
	uc, _, _ := newTestUseCase(session, nil)

	outcome := uc.triggerLazyLoad(context.Background(), session, logger.NewNop())

	assert.Equal(t, LazyLoadCompleted, outcome)
	// 80% of 1000 = 800; then bottom (-1) and back to top.
	assert.Equal(t, []int{0, 800, 1600, 2400, -1, 0}, session.scrolls)
}

func TestLazyLoad_BoundFollowsGrowingHeight(t *testing.T) {
	session := newFakeSession()
	session.viewport = 1000
	// initial measure, then one measure after each step
	session.heights = []int{1000, 1000, 2500}
	uc, _, _ := newTestUseCase(session, nil)

	outcome := uc.triggerLazyLoad(context.Background(), session, logger.NewNop())

	assert.Equal(t, LazyLoadCompleted, outcome)
	assert.Equal(t, []int{0, 800, 1600, 2400, -1, 0}, session.scrolls)
}

func TestLazyLoad_WaitSequence(t *testing.T) {
	session := newFakeSession()
	session.viewport = 1000
	session.heights = []int{1000}
	uc, _, sleeps := newTestUseCase(session, nil)

	uc.triggerLazyLoad(context.Background(), session, logger.NewNop())

	assert.Equal(t, []time.Duration{
		500 * time.Millisecond, // after step at 0
		500 * time.Millisecond, // after step at 800
		time.Second,            // bottom settle
		500 * time.Millisecond, // top settle
	}, sleeps.calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second, 3 * time.Second}, session.idleWaits)
}

func TestLazyLoad_IdleTimeoutIsTolerated(t *testing.T) {
	session := newFakeSession()
	session.idleErr = entity.ErrNetworkIdleTimeout
	uc, _, _ := newTestUseCase(session, nil)

	outcome := uc.triggerLazyLoad(context.Background(), session, logger.NewNop())

	assert.Equal(t, LazyLoadCompleted, outcome)
}

func TestLazyLoad_ErrorFallsBackToFlatWait(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeSession)
	}{
		{"scroll error", func(s *fakeSession) { s.scrollErr = errors.New("detached") }},
		{"viewport error", func(s *fakeSession) { s.viewportErr = errors.New("eval failed") }},
		{"zero viewport", func(s *fakeSession) { s.viewport = 0 }},
		{"image wait error", func(s *fakeSession) { s.imagesErr = errors.New("promise rejected") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newFakeSession()
			tt.setup(session)
			uc, _, sleeps := newTestUseCase(session, nil)

			outcome := uc.triggerLazyLoad(context.Background(), session, logger.NewNop())

			assert.Equal(t, LazyLoadFellBack, outcome)
			require.NotEmpty(t, sleeps.calls)
			assert.Equal(t, 2*time.Second, sleeps.calls[len(sleeps.calls)-1])
		})
	}
}

func TestLazyLoad_FailureDoesNotFailCapture(t *testing.T) {
	session := newFakeSession()
	session.scrollErr = errors.New("detached")
	uc, _, _ := newTestUseCase(session, nil)

	result, err := uc.Capture(context.Background(), entity.NewCaptureRequest("https://example.com"))

	require.NoError(t, err)
	assert.NotEmpty(t, result.HTML)
}

func TestLazyLoad_StepLimit(t *testing.T) {
	session := newFakeSession()
	session.viewport = 100
	session.heights = []int{1_000_000}
	launcher := &fakeLauncher{session: session}
	uc := New(launcher, &fakeFetcher{}, logger.NewNop(),
		WithSleep((&sleepRecorder{}).sleep),
		WithMaxScrollSteps(3))

	outcome := uc.triggerLazyLoad(context.Background(), session, logger.NewNop())

	assert.Equal(t, LazyLoadCompleted, outcome)
	assert.Equal(t, []int{0, 80, 160, -1, 0}, session.scrolls)
}
