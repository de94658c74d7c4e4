package wallet

import (
	"sync"

	"github.com/eapache/queue"
)

// loop runs posted tasks one at a time on a single goroutine, in FIFO order.
// Session state is only ever touched from inside a task.
type loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   *queue.Queue
	stopped bool
	done    chan struct{}
}

func newLoop() *loop {
	l := &loop{
		tasks: queue.New(),
		done:  make(chan struct{}),
	}
	l.cond = sync.NewCond(&l.mu)
	go l.run()
	return l
}

func (l *loop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		for l.tasks.Length() == 0 && !l.stopped {
			l.cond.Wait()
		}
		if l.tasks.Length() == 0 {
			l.mu.Unlock()
			return
		}
		task := l.tasks.Remove().(func())
		l.mu.Unlock()

		task()
	}
}

// post queues task. It returns false once the loop is stopped.
func (l *loop) post(task func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return false
	}
	l.tasks.Add(task)
	l.cond.Signal()
	return true
}

// do posts task and waits for it to finish. Must not be called from a task.
func (l *loop) do(task func()) bool {
	finished := make(chan struct{})
	if !l.post(func() {
		defer close(finished)
		task()
	}) {
		return false
	}
	<-finished
	return true
}

// stop drains the tasks already queued, then ends the loop goroutine.
func (l *loop) stop() {
	l.mu.Lock()
	l.stopped = true
	l.cond.Broadcast()
	l.mu.Unlock()
	<-l.done
}
