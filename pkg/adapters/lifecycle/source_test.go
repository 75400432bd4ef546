package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/sppack/sppack/pkg/core"
)

func TestSource_BridgesEvents(t *testing.T) {
	in := make(chan core.Event, 2)
	src := NewSource(in)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	in <- core.Event{Type: core.EventItemBuilt, List: "Tasks", Item: 3, Versions: 2}
	close(in)

	select {
	case e, ok := <-src.Events():
		if !ok {
			t.Fatal("stream closed before delivering the event")
		}
		if e.String() != "item_built: item 3 (2 versions)" {
			t.Errorf("unexpected event: %s", e.String())
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for bridged event")
	}

	select {
	case _, ok := <-src.Events():
		if ok {
			t.Error("expected stream to close after input closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for stream close")
	}
}

func TestSource_FiltersTypes(t *testing.T) {
	in := make(chan core.Event, 4)
	src := NewSource(in,
		WithTypes(core.EventRunStarted, core.EventRunCompleted),
		WithBuffer(4),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	in <- core.Event{Type: core.EventRunStarted, List: "Tasks"}
	in <- core.Event{Type: core.EventItemBuilt, List: "Tasks", Item: 1}
	in <- core.Event{Type: core.EventItemBuilt, List: "Tasks", Item: 2}
	in <- core.Event{Type: core.EventRunCompleted, List: "Tasks", Files: 7}
	close(in)

	var got []core.Event
	timeout := time.After(time.Second)
	for {
		select {
		case e, ok := <-src.Events():
			if !ok {
				if len(got) != 2 {
					t.Fatalf("expected 2 events past the filter, got %d", len(got))
				}
				if got[0].Type != core.EventRunStarted || got[1].Type != core.EventRunCompleted {
					t.Errorf("wrong events passed the filter: %v", got)
				}
				return
			}
			got = append(got, e.(core.Event))
		case <-timeout:
			t.Fatal("timed out draining filtered stream")
		}
	}
}

func TestSource_StopsOnCancel(t *testing.T) {
	in := make(chan core.Event)
	src := NewSource(in)

	ctx, cancel := context.WithCancel(context.Background())
	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	cancel()

	select {
	case _, ok := <-src.Events():
		if ok {
			t.Error("expected no events after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for stream close")
	}
}
