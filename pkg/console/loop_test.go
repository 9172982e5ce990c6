package console_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/LunovVladyslav/ws-tutorial/pkg/console"
)

func TestLoopRunsEventsInOrder(t *testing.T) {
	l := console.NewLoop(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(stopped)
	}()

	var got []int
	done := make(chan struct{})
	for i := range 5 {
		if err := l.Post(func(context.Context) { got = append(got, i) }); err != nil {
			t.Fatalf("Post: %v", err)
		}
	}
	_ = l.Post(func(context.Context) { panic("boom") })
	_ = l.Post(func(context.Context) { close(done) })

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("events did not run")
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	l.Stop()
	<-stopped
	if err := l.Post(func(context.Context) {}); !errors.Is(err, console.ErrLoopStopped) {
		t.Errorf("Post after Stop = %v", err)
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	l := console.NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(stopped)
	}()
	cancel()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if err := l.Post(func(context.Context) {}); !errors.Is(err, console.ErrLoopStopped) {
		t.Errorf("Post after cancel = %v", err)
	}
}

func TestTryPostDoesNotBlock(t *testing.T) {
	l := console.NewLoop(1)
	if err := l.TryPost(func(context.Context) {}); err != nil {
		t.Fatalf("first TryPost: %v", err)
	}
	if err := l.TryPost(func(context.Context) {}); !errors.Is(err, console.ErrLoopBusy) {
		t.Fatalf("TryPost on full queue = %v, want ErrLoopBusy", err)
	}
	l.Stop()
	if err := l.TryPost(func(context.Context) {}); !errors.Is(err, console.ErrLoopStopped) {
		t.Fatalf("TryPost after Stop = %v", err)
	}
}
