package cache

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// existenceIndex 记录已知存在的文件名，只用于快速判定“肯定不存在”。
// 集合只由 run goroutine 访问，外部通过 ops 通道投递操作。
type existenceIndex struct {
	ops  chan func(*indexState)
	done chan struct{}
	once sync.Once
}

type indexState struct {
	names map[string]struct{}
	// available 为 false 时目录尚未列举完成或列举失败，任何查询都回答“可能存在”。
	available bool
}

const indexQueueSize = 256

// newExistenceIndex 启动 actor，并在独立 goroutine 中列举 dir 填充集合。
func newExistenceIndex(dir string, logger logrus.FieldLogger) *existenceIndex {
	ix := &existenceIndex{
		ops:  make(chan func(*indexState), indexQueueSize),
		done: make(chan struct{}),
	}
	go ix.run()
	go ix.populate(dir, logger)
	return ix
}

func (ix *existenceIndex) run() {
	state := &indexState{names: make(map[string]struct{})}
	for {
		select {
		case op := <-ix.ops:
			op(state)
		case <-ix.done:
			return
		}
	}
}

func (ix *existenceIndex) populate(dir string, logger logrus.FieldLogger) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.WithError(err).WithField("dir", dir).Warn("existence_index_disabled")
		return
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	ix.submit(func(s *indexState) {
		for _, name := range names {
			s.names[name] = struct{}{}
		}
		s.available = true
	})
}

func (ix *existenceIndex) submit(op func(*indexState)) bool {
	select {
	case <-ix.done:
		return false
	default:
	}
	select {
	case ix.ops <- op:
		return true
	case <-ix.done:
		return false
	}
}

// observeInserted 异步记录新写入的文件名。
func (ix *existenceIndex) observeInserted(name string) {
	ix.submit(func(s *indexState) {
		s.names[name] = struct{}{}
	})
}

// mayExist 返回 false 时文件一定不存在；true 只代表需要继续查磁盘。
func (ix *existenceIndex) mayExist(name string) bool {
	reply := make(chan bool, 1)
	ok := ix.submit(func(s *indexState) {
		if !s.available {
			reply <- true
			return
		}
		_, found := s.names[name]
		reply <- found
	})
	if !ok {
		return true
	}
	select {
	case found := <-reply:
		return found
	case <-ix.done:
		return true
	}
}

func (ix *existenceIndex) close() {
	ix.once.Do(func() { close(ix.done) })
}
