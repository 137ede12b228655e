package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Sweepable 是 Sweeper 可以清理的缓存，Backend 的任意实例化都满足该接口。
type Sweepable interface {
	Name() string
	RemoveExpiredValues(referenceDate time.Time) ([]string, error)
	RemoveSizeExceededValues() ([]string, error)
}

// SweepResult 记录单个缓存一次清理的结果。
type SweepResult struct {
	Cache   string
	Expired []string
	Evicted []string
	Err     error
}

// Sweeper 周期性地对一组缓存执行过期清理与容量淘汰。配置变更通过 Apply 投递，
// 在两次清理之间由 Run 所在 goroutine 执行，从而与清理串行。
type Sweeper struct {
	interval time.Duration
	logger   logrus.FieldLogger
	now      func() time.Time
	targets  []Sweepable

	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
}

const defaultSweepInterval = 10 * time.Minute

// NewSweeper 创建 Sweeper，interval <= 0 时使用 10 分钟。
func NewSweeper(interval time.Duration, logger logrus.FieldLogger, targets ...Sweepable) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Sweeper{
		interval: interval,
		logger:   logger,
		now:      time.Now,
		targets:  targets,
		wake:     make(chan struct{}, 1),
	}
}

// Apply 投递一个在下一次清理前执行的变更，并立即唤醒 Run。
func (s *Sweeper) Apply(fn func()) {
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Sweeper) applyPending() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// SweepOnce 依次清理所有缓存，单个缓存失败不影响其余缓存。
func (s *Sweeper) SweepOnce(referenceDate time.Time) []SweepResult {
	s.applyPending()

	runID := uuid.NewString()
	results := make([]SweepResult, 0, len(s.targets))
	for _, target := range s.targets {
		result := SweepResult{Cache: target.Name()}
		result.Expired, result.Err = target.RemoveExpiredValues(referenceDate)
		if result.Err == nil {
			result.Evicted, result.Err = target.RemoveSizeExceededValues()
		}

		entry := s.logger.WithFields(logrus.Fields{
			"action":  "sweep",
			"run_id":  runID,
			"cache":   result.Cache,
			"expired": len(result.Expired),
			"evicted": len(result.Evicted),
		})
		if result.Err != nil {
			entry.WithError(result.Err).Warn("cache_sweep_failed")
		} else {
			entry.Debug("cache_sweep_done")
		}
		results = append(results, result)
	}
	return results
}

// Run 立即清理一次，然后每隔 interval 清理，直到 ctx 结束。
func (s *Sweeper) Run(ctx context.Context) error {
	for {
		s.SweepOnce(s.now())

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-s.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}
