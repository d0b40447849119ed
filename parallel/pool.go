package parallel

import (
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	WaitFunc   func(done bool)
	CancelFunc func()
)

// Pool fans tasks out to a fixed set of workers. With a single worker
// no goroutines are started and Do runs the task inline.
type Pool struct {
	wg     sync.WaitGroup
	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc
}

func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		Do:     func(task func()) { task() },
		Wait:   func(bool) {},
		Cancel: func() {},
	}
	if numWorkers == 1 {
		return pool
	}

	tasks := make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for task := range tasks {
				task()
			}
		})
	}

	pool.Do = func(task func()) {
		tasks <- task
	}
	pool.Cancel = sync.OnceFunc(func() { close(tasks) })
	pool.Wait = func(done bool) {
		if done {
			pool.Cancel()
		}
		pool.wg.Wait()
	}

	return pool
}
