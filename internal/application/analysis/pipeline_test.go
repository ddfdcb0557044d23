package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	domain "github.com/bryanwahyu/herbalens/internal/domain/analysis"
	"github.com/bryanwahyu/herbalens/internal/domain/plants"
	"github.com/bryanwahyu/herbalens/internal/domain/upload"
	"github.com/bryanwahyu/herbalens/internal/infra/classifier/random"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// manualClock only releases After channels when fire is called.
type manualClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []chan time.Time
	armed   chan struct{}
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), armed: make(chan struct{}, 64)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	c.mu.Lock()
	c.waiters = append(c.waiters, ch)
	c.mu.Unlock()
	c.armed <- struct{}{}
	return ch
}

func (c *manualClock) waitArmed(t *testing.T) {
	t.Helper()
	select {
	case <-c.armed:
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline never started waiting")
	}
}

func (c *manualClock) fire(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	ws := c.waiters
	c.waiters = nil
	now := c.now
	c.mu.Unlock()
	for _, ch := range ws {
		ch <- now
	}
}

type memImages struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (m *memImages) Put(_ context.Context, key, _ string, _ []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.keys = append(m.keys, key)
	return "/v1/uploads/" + key, nil
}

type classifierFunc func(ctx context.Context, img domain.Image) (domain.Result, error)

func (f classifierFunc) Classify(ctx context.Context, img domain.Image) (domain.Result, error) {
	return f(ctx, img)
}

func newService(t *testing.T, cl domain.Classifier, clock *manualClock) *Service {
	t.Helper()
	if cl == nil {
		c, err := plants.NewCatalog(plants.Builtin())
		require.NoError(t, err)
		cl = random.NewSeeded(c, 7)
	}
	svc := &Service{
		Classifier: cl,
		Images:     &memImages{},
		Validator:  upload.NewValidator(0),
		Delay:      DefaultDelay,
	}
	if clock != nil {
		svc.Clock = clock
	} else {
		svc.Delay = 0
	}
	return svc
}

func png(size int) Upload {
	return Upload{
		File:  upload.File{Name: "leaf.png", ContentType: "image/png", Size: int64(size)},
		Bytes: make([]byte, 16),
	}
}

func TestSubmitRejectsInvalidFiles(t *testing.T) {
	p := newService(t, nil, nil).NewPipeline()

	task, err := p.Submit(context.Background(), Upload{
		File: upload.File{Name: "notes.txt", ContentType: "text/plain", Size: 10},
	})
	assert.Nil(t, task)
	assert.ErrorIs(t, err, upload.ErrInvalidType)
	assert.Equal(t, domain.StateIdle, p.State())

	task, err = p.Submit(context.Background(), png(5_242_881))
	assert.Nil(t, task)
	assert.ErrorIs(t, err, upload.ErrTooLarge)
	assert.Equal(t, domain.StateIdle, p.State())
}

func TestSubmitProducesOneResult(t *testing.T) {
	clock := newManualClock()
	svc := newService(t, nil, clock)
	p := svc.NewPipeline()

	task, err := p.Submit(context.Background(), png(1_000_000))
	require.NoError(t, err)
	assert.Equal(t, domain.StateAnalyzing, p.State())
	assert.Nil(t, p.Snapshot().Result)

	clock.waitArmed(t)
	clock.fire(DefaultDelay)

	res, err := task.Wait(context.Background())
	require.NoError(t, err)

	known := map[string]bool{}
	for _, r := range plants.Builtin() {
		known[r.ID] = true
	}
	assert.True(t, known[res.ID])
	assert.GreaterOrEqual(t, res.Confidence, 85)
	assert.Less(t, res.Confidence, 97)
	assert.Contains(t, []domain.HealthStatus{domain.HealthHealthy, domain.HealthWarning}, res.HealthStatus)
	assert.Equal(t, res.HealthStatus == domain.HealthWarning, len(res.Diseases) > 0)
	assert.Equal(t, task.ID(), res.AnalysisID)
	assert.Equal(t, "/v1/uploads/"+task.ID()+".png", res.ImageRef)
	assert.Equal(t, clock.Now(), res.AnalyzedAt)

	snap := p.Snapshot()
	assert.Equal(t, domain.StateResult, snap.State)
	require.NotNil(t, snap.Result)
	assert.Equal(t, res.AnalysisID, snap.Result.AnalysisID)
	assert.Len(t, p.History(), 1)
}

func TestSubmitWhileAnalyzingIsRejected(t *testing.T) {
	clock := newManualClock()
	p := newService(t, nil, clock).NewPipeline()

	first, err := p.Submit(context.Background(), png(100))
	require.NoError(t, err)
	clock.waitArmed(t)

	second, err := p.Submit(context.Background(), png(100))
	assert.Nil(t, second)
	assert.ErrorIs(t, err, domain.ErrAnalysisInProgress)

	clock.fire(DefaultDelay)
	_, err = first.Wait(context.Background())
	require.NoError(t, err)
	assert.Len(t, p.History(), 1)
}

func TestResetCancelsRunningTask(t *testing.T) {
	clock := newManualClock()
	p := newService(t, nil, clock).NewPipeline()

	task, err := p.Submit(context.Background(), png(100))
	require.NoError(t, err)
	clock.waitArmed(t)

	p.Reset()
	assert.Equal(t, domain.StateIdle, p.State())

	_, err = task.Wait(context.Background())
	assert.ErrorIs(t, err, domain.ErrCanceled)

	// a late timer must not resurrect the result
	clock.fire(DefaultDelay)
	assert.Equal(t, domain.StateIdle, p.State())
	assert.Empty(t, p.History())

	// cancel after resolve is a no-op
	task.Cancel()
	_, err = task.Wait(context.Background())
	assert.ErrorIs(t, err, domain.ErrCanceled)
}

func TestTaskCancelReturnsToIdle(t *testing.T) {
	clock := newManualClock()
	p := newService(t, nil, clock).NewPipeline()

	task, err := p.Submit(context.Background(), png(100))
	require.NoError(t, err)
	clock.waitArmed(t)

	task.Cancel()
	_, err = task.Wait(context.Background())
	assert.ErrorIs(t, err, domain.ErrCanceled)
	assert.Equal(t, domain.StateIdle, p.State())
	assert.Empty(t, p.Snapshot().Notice)

	next, err := p.Submit(context.Background(), png(100))
	require.NoError(t, err)
	clock.waitArmed(t)
	clock.fire(DefaultDelay)
	_, err = next.Wait(context.Background())
	require.NoError(t, err)
}

func TestClassifierFaultsReturnToIdle(t *testing.T) {
	boom := errors.New("model exploded")
	cases := map[string]domain.Classifier{
		"error": classifierFunc(func(context.Context, domain.Image) (domain.Result, error) {
			return domain.Result{}, boom
		}),
		"panic": classifierFunc(func(context.Context, domain.Image) (domain.Result, error) {
			panic("nil map")
		}),
		"invalid result": classifierFunc(func(context.Context, domain.Image) (domain.Result, error) {
			return domain.Result{Record: plants.Record{ID: "ginger"}, HealthStatus: "dead"}, nil
		}),
	}
	for name, cl := range cases {
		t.Run(name, func(t *testing.T) {
			p := newService(t, cl, nil).NewPipeline()
			task, err := p.Submit(context.Background(), png(100))
			require.NoError(t, err)

			_, err = task.Wait(context.Background())
			require.ErrorIs(t, err, domain.ErrPipelineFault)

			snap := p.Snapshot()
			assert.Equal(t, domain.StateIdle, snap.State)
			assert.Nil(t, snap.Result)
			assert.Equal(t, "analysis failed", snap.Notice)
			assert.Empty(t, p.History())
		})
	}

	t.Run("cause is kept", func(t *testing.T) {
		p := newService(t, cases["error"], nil).NewPipeline()
		task, err := p.Submit(context.Background(), png(100))
		require.NoError(t, err)
		_, err = task.Wait(context.Background())
		assert.ErrorIs(t, err, boom)
	})
}

func TestImageStoreFailureIsAFault(t *testing.T) {
	svc := newService(t, nil, nil)
	svc.Images = &memImages{err: errors.New("bucket gone")}
	p := svc.NewPipeline()

	task, err := p.Submit(context.Background(), png(100))
	assert.Nil(t, task)
	assert.ErrorIs(t, err, domain.ErrPipelineFault)
	assert.Equal(t, domain.StateIdle, p.State())
}

// gatedImages blocks Put until release is closed.
type gatedImages struct {
	memImages
	entered chan struct{}
	release chan struct{}
}

func (g *gatedImages) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.memImages.Put(ctx, key, contentType, data)
}

func TestConcurrentSubmitStoresOneImage(t *testing.T) {
	images := &gatedImages{entered: make(chan struct{}, 2), release: make(chan struct{})}
	svc := newService(t, nil, nil)
	svc.Images = images
	p := svc.NewPipeline()

	type submitted struct {
		task *Task
		err  error
	}
	first := make(chan submitted, 1)
	go func() {
		task, err := p.Submit(context.Background(), png(100))
		first <- submitted{task, err}
	}()

	select {
	case <-images.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first submit never reached the image store")
	}
	assert.Equal(t, domain.StateAnalyzing, p.State())

	second, err := p.Submit(context.Background(), png(100))
	assert.Nil(t, second)
	assert.ErrorIs(t, err, domain.ErrAnalysisInProgress)

	close(images.release)
	got := <-first
	require.NoError(t, got.err)
	_, err = got.task.Wait(context.Background())
	require.NoError(t, err)

	images.mu.Lock()
	defer images.mu.Unlock()
	assert.Len(t, images.keys, 1)
}

func TestImageStoreFailureReleasesPipeline(t *testing.T) {
	images := &memImages{err: errors.New("bucket gone")}
	svc := newService(t, nil, nil)
	svc.Images = images
	p := svc.NewPipeline()

	_, err := p.Submit(context.Background(), png(100))
	require.ErrorIs(t, err, domain.ErrPipelineFault)
	assert.Equal(t, "analysis failed", p.Snapshot().Notice)

	images.mu.Lock()
	images.err = nil
	images.mu.Unlock()

	task, err := p.Submit(context.Background(), png(100))
	require.NoError(t, err)
	_, err = task.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StateResult, p.State())
}

func TestHistoryAfterSixAnalyses(t *testing.T) {
	p := newService(t, nil, nil).NewPipeline()

	var ids []string
	for i := 0; i < 6; i++ {
		task, err := p.Submit(context.Background(), png(100))
		require.NoError(t, err)
		res, err := task.Wait(context.Background())
		require.NoError(t, err)
		ids = append(ids, res.AnalysisID)
	}

	h := p.History()
	require.Len(t, h, 5)
	for i, r := range h {
		assert.Equal(t, ids[5-i], r.AnalysisID)
	}
}

func TestResetFromResultKeepsHistory(t *testing.T) {
	p := newService(t, nil, nil).NewPipeline()
	task, err := p.Submit(context.Background(), png(100))
	require.NoError(t, err)
	_, err = task.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.StateResult, p.State())

	p.Reset()
	snap := p.Snapshot()
	assert.Equal(t, domain.StateIdle, snap.State)
	assert.Nil(t, snap.Result)
	assert.Len(t, p.History(), 1)

	// idle reset is a no-op
	p.Reset()
	assert.Equal(t, domain.StateIdle, p.State())
}

func TestAwait(t *testing.T) {
	clock := newManualClock()
	p := newService(t, nil, clock).NewPipeline()

	snap, err := p.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, snap.State)

	_, err = p.Submit(context.Background(), png(100))
	require.NoError(t, err)
	clock.waitArmed(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = p.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	clock.fire(DefaultDelay)
	snap, err = p.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StateResult, snap.State)
	assert.NotNil(t, snap.Result)
}
