package analysis

import (
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/herbalens/internal/application"
	domain "github.com/bryanwahyu/herbalens/internal/domain/analysis"
	"github.com/bryanwahyu/herbalens/internal/domain/upload"
)

// DefaultDelay is how long an analysis takes before the classifier runs.
const DefaultDelay = 3 * time.Second

// Observer receives pipeline events, e.g. for metrics.
type Observer interface {
	UploadRejected(reason error)
	AnalysisStarted()
	AnalysisSucceeded(d time.Duration)
	AnalysisFailed(err error)
}

type nopObserver struct{}

func (nopObserver) UploadRejected(error)            {}
func (nopObserver) AnalysisStarted()                {}
func (nopObserver) AnalysisSucceeded(time.Duration) {}
func (nopObserver) AnalysisFailed(error)            {}

// Service holds what every session pipeline shares. Fields are read-only once
// the first pipeline is created, so Service is safe for concurrent use.
type Service struct {
	Classifier  domain.Classifier
	Images      domain.ImageStore
	Validator   upload.Validator
	Clock       application.Clock
	Delay       time.Duration
	HistorySize int
	Logger      *zap.Logger
	Observer    Observer
}

// NewPipeline creates an idle pipeline with an empty history.
func (s *Service) NewPipeline() *Pipeline {
	return &Pipeline{
		svc:        s,
		state:      domain.StateIdle,
		history:    domain.NewHistory(s.HistorySize),
		lastActive: s.clock().Now(),
	}
}

func (s *Service) clock() application.Clock {
	if s.Clock == nil {
		return application.SystemClock{}
	}
	return s.Clock
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Service) observer() Observer {
	if s.Observer == nil {
		return nopObserver{}
	}
	return s.Observer
}
