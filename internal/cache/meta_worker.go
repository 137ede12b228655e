package cache

import (
	"sync"
)

// metaWorker 串行执行读取后的过期时间延长写入，调用方只投递任务不等待结果。
type metaWorker struct {
	jobs chan func()
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

const metaQueueSize = 128

func newMetaWorker() *metaWorker {
	w := &metaWorker{
		jobs: make(chan func(), metaQueueSize),
		done: make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

func (w *metaWorker) run() {
	defer w.wg.Done()
	for {
		select {
		case job := <-w.jobs:
			job()
		case <-w.done:
			// 退出前把已入队的任务做完
			for {
				select {
				case job := <-w.jobs:
					job()
				default:
					return
				}
			}
		}
	}
}

func (w *metaWorker) submit(job func()) {
	select {
	case w.jobs <- job:
	case <-w.done:
	}
}

// flush 阻塞到此前投递的任务全部执行完。
func (w *metaWorker) flush() {
	finished := make(chan struct{})
	w.submit(func() { close(finished) })
	select {
	case <-finished:
	case <-w.done:
		w.wg.Wait()
	}
}

func (w *metaWorker) close() {
	w.once.Do(func() { close(w.done) })
	w.wg.Wait()
}
