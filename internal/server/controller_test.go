package server

import (
	"sync"
	"testing"
	"time"
)

func TestPongClockConcurrentBeats(t *testing.T) {
	clock := newPongClock()
	if clock.stale(time.Second) {
		t.Error("fresh clock reports stale")
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				clock.beat()
				clock.stale(time.Second)
			}
		}()
	}
	wg.Wait()
	if clock.stale(time.Second) {
		t.Error("clock stale right after beats")
	}
}

func TestPongClockGoesStale(t *testing.T) {
	clock := newPongClock()
	time.Sleep(5 * time.Millisecond)
	if !clock.stale(time.Millisecond) {
		t.Error("clock not stale past the timeout")
	}
}
