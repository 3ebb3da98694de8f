package worker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countTask struct {
	counter *int64
	done    *sync.WaitGroup
}

func (t countTask) Execute() {
	atomic.AddInt64(t.counter, 1)
	t.done.Done()
}

func TestPoolExecutesQueuedTasks(t *testing.T) {
	pool := NewPool(3, 16)
	var counter int64
	var done sync.WaitGroup
	const n = 25
	done.Add(n)
	for i := 0; i < n; i++ {
		pool.Exec(countTask{counter: &counter, done: &done})
	}
	waitCh := make(chan struct{})
	go func() {
		done.Wait()
		close(waitCh)
	}()
	select {
	case <-waitCh:
	case <-time.After(5 * time.Second):
		t.Fatal("tasks did not finish in time")
	}
	if got := atomic.LoadInt64(&counter); got != n {
		t.Errorf("executed %d tasks, want %d", got, n)
	}
}

func TestPoolResizeDown(t *testing.T) {
	pool := NewPool(4, 4)
	pool.Resize(1)
	var counter int64
	var done sync.WaitGroup
	done.Add(1)
	pool.Exec(countTask{counter: &counter, done: &done})
	waitCh := make(chan struct{})
	go func() {
		done.Wait()
		close(waitCh)
	}()
	select {
	case <-waitCh:
	case <-time.After(5 * time.Second):
		t.Fatal("task did not run after resize")
	}
}
