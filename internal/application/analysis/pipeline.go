package analysis

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/bryanwahyu/herbalens/internal/domain/analysis"
	"github.com/bryanwahyu/herbalens/internal/domain/upload"
)

// Upload is a submitted file together with its bytes.
type Upload struct {
	File  upload.File
	Bytes []byte
}

// Pipeline drives idle -> analyzing -> result for one session.
// At most one task runs at a time; Submit while analyzing is rejected.
type Pipeline struct {
	svc *Service

	mu         sync.Mutex
	state      domain.State
	task       *Task
	imageRef   string
	current    *domain.Result
	notice     string
	history    *domain.History
	lastActive time.Time
}

// Submit validates up and, if accepted, starts an analysis. Validation
// failures return upload.ErrInvalidType or upload.ErrTooLarge and leave the
// pipeline untouched.
func (p *Pipeline) Submit(ctx context.Context, up Upload) (*Task, error) {
	log := p.svc.logger()
	file := up.File
	if file.Size == 0 {
		file.Size = int64(len(up.Bytes))
	}
	if err := p.svc.Validator.Validate(file); err != nil {
		p.svc.observer().UploadRejected(err)
		log.Info("upload rejected",
			zap.String("file", file.Name),
			zap.String("content_type", file.ContentType),
			zap.Int64("size", file.Size),
			zap.Error(err))
		return nil, err
	}

	id := uuid.NewString()
	taskCtx, cancel := context.WithCancel(context.Background())
	t := newTask(id, cancel)

	// claim the pipeline before touching the image store
	p.mu.Lock()
	if p.state == domain.StateAnalyzing {
		p.mu.Unlock()
		cancel()
		return nil, domain.ErrAnalysisInProgress
	}
	p.state = domain.StateAnalyzing
	p.task = t
	p.imageRef = ""
	p.current = nil
	p.notice = ""
	p.lastActive = p.svc.clock().Now()
	p.mu.Unlock()

	ref := ""
	if p.svc.Images != nil {
		key := id + path.Ext(file.Name)
		var err error
		ref, err = p.svc.Images.Put(ctx, key, file.ContentType, up.Bytes)
		if err != nil {
			p.release(t, domain.ErrPipelineFault.Error())
			p.svc.observer().AnalysisFailed(err)
			log.Error("store upload", zap.String("analysis_id", id), zap.Error(err))
			fault := fmt.Errorf("%w: store image: %w", domain.ErrPipelineFault, err)
			t.resolve(domain.Result{}, fault)
			return nil, fault
		}
	}

	p.mu.Lock()
	if p.task != t {
		// reset while the image was being stored
		p.mu.Unlock()
		t.resolve(domain.Result{}, domain.ErrCanceled)
		return nil, domain.ErrCanceled
	}
	p.imageRef = ref
	p.mu.Unlock()

	p.svc.observer().AnalysisStarted()
	log.Info("analysis started",
		zap.String("analysis_id", id),
		zap.String("content_type", file.ContentType),
		zap.Int64("size", file.Size))

	img := domain.Image{Name: file.Name, ContentType: file.ContentType, Bytes: up.Bytes}
	go p.run(taskCtx, t, img, ref)
	return t, nil
}

func (p *Pipeline) run(ctx context.Context, t *Task, img domain.Image, ref string) {
	started := p.svc.clock().Now()
	res, err := p.analyze(ctx, img)
	if err == nil {
		res.AnalysisID = t.ID()
		res.ImageRef = ref
		res.AnalyzedAt = p.svc.clock().Now()
	}
	p.complete(t, res, err, started)
}

// analyze waits out the delay and then classifies. Panics from the
// classifier come back as errors.
func (p *Pipeline) analyze(ctx context.Context, img domain.Image) (res domain.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classifier panic: %v", r)
		}
	}()

	select {
	case <-p.svc.clock().After(p.svc.Delay):
	case <-ctx.Done():
		return domain.Result{}, domain.ErrCanceled
	}

	res, err = p.svc.Classifier.Classify(ctx, img)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Result{}, domain.ErrCanceled
		}
		return domain.Result{}, err
	}
	if verr := res.Validate(); verr != nil {
		return domain.Result{}, fmt.Errorf("invalid classifier result: %w", verr)
	}
	return res, nil
}

func (p *Pipeline) complete(t *Task, res domain.Result, err error, started time.Time) {
	log := p.svc.logger().With(zap.String("analysis_id", t.ID()))

	p.mu.Lock()
	if p.task != t {
		// reset or canceled while running
		p.mu.Unlock()
		t.resolve(domain.Result{}, domain.ErrCanceled)
		return
	}
	p.task = nil
	p.lastActive = p.svc.clock().Now()

	switch {
	case errors.Is(err, domain.ErrCanceled):
		p.state = domain.StateIdle
		p.imageRef = ""
		p.mu.Unlock()
		log.Info("analysis canceled")
		t.resolve(domain.Result{}, domain.ErrCanceled)

	case err != nil:
		p.state = domain.StateIdle
		p.imageRef = ""
		p.notice = domain.ErrPipelineFault.Error()
		p.mu.Unlock()
		p.svc.observer().AnalysisFailed(err)
		log.Error("analysis failed", zap.Error(err))
		t.resolve(domain.Result{}, fmt.Errorf("%w: %w", domain.ErrPipelineFault, err))

	default:
		stored := res.Clone()
		p.state = domain.StateResult
		p.current = &stored
		p.history.Push(stored)
		p.mu.Unlock()
		elapsed := p.svc.clock().Now().Sub(started)
		p.svc.observer().AnalysisSucceeded(elapsed)
		log.Info("analysis finished",
			zap.String("plant_id", res.ID),
			zap.Int("confidence", res.Confidence),
			zap.String("health", string(res.HealthStatus)),
			zap.Duration("elapsed", elapsed))
		t.resolve(res, nil)
	}
}

// release drops a claim that never reached the classifier.
func (p *Pipeline) release(t *Task, notice string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.task != t {
		return
	}
	p.task = nil
	p.state = domain.StateIdle
	p.notice = notice
	p.lastActive = p.svc.clock().Now()
}

// Reset returns the pipeline to idle. A running task is canceled; the
// history is kept.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	t := p.task
	p.task = nil
	p.state = domain.StateIdle
	p.imageRef = ""
	p.current = nil
	p.notice = ""
	p.lastActive = p.svc.clock().Now()
	p.mu.Unlock()

	if t != nil {
		t.Cancel()
		t.resolve(domain.Result{}, domain.ErrCanceled)
	}
}

// State returns the current state.
func (p *Pipeline) State() domain.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Snapshot returns the state, the shown result and the last failure notice.
func (p *Pipeline) Snapshot() domain.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := domain.Snapshot{State: p.state, ImageRef: p.imageRef, Notice: p.notice}
	if p.current != nil {
		r := p.current.Clone()
		s.Result = &r
	}
	return s
}

// Await blocks until no task is running (or ctx ends) and returns the snapshot.
func (p *Pipeline) Await(ctx context.Context) (domain.Snapshot, error) {
	p.mu.Lock()
	t := p.task
	p.mu.Unlock()
	if t != nil {
		select {
		case <-t.Done():
		case <-ctx.Done():
			return domain.Snapshot{}, ctx.Err()
		}
	}
	return p.Snapshot(), nil
}

// History returns the retained results, newest first.
func (p *Pipeline) History() []domain.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history.Items()
}

func (p *Pipeline) idleSince() (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastActive, p.state != domain.StateAnalyzing
}
