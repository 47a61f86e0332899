package services

import (
	"testing"
	"time"
)

func receive(t *testing.T, ch <-chan Selection) Selection {
	t.Helper()
	select {
	case sel, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return sel
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for selection")
	}
	return Selection{}
}

func TestSelectionHubLatestWins(t *testing.T) {
	hub := NewSelectionHub()
	ch, cancel := hub.Subscribe("s1")
	defer cancel()

	for v := uint(1); v <= 3; v++ {
		hub.Publish(Selection{SessionKey: "s1", Version: v})
	}

	if got := receive(t, ch); got.Version != 3 {
		t.Errorf("Version = %d, want 3", got.Version)
	}
	select {
	case sel := <-ch:
		t.Errorf("unexpected extra state %d", sel.Version)
	default:
	}
}

func TestSelectionHubIsolatesSessions(t *testing.T) {
	hub := NewSelectionHub()
	a, cancelA := hub.Subscribe("a")
	defer cancelA()
	b, cancelB := hub.Subscribe("b")
	defer cancelB()

	hub.Publish(Selection{SessionKey: "a", Version: 1})

	if got := receive(t, a); got.SessionKey != "a" {
		t.Errorf("SessionKey = %q, want a", got.SessionKey)
	}
	select {
	case sel := <-b:
		t.Errorf("session b received %+v", sel)
	default:
	}
}

func TestSelectionHubCancel(t *testing.T) {
	hub := NewSelectionHub()
	ch, cancel := hub.Subscribe("s")
	if n := hub.Subscribers("s"); n != 1 {
		t.Fatalf("Subscribers = %d, want 1", n)
	}

	cancel()
	cancel()

	if n := hub.Subscribers("s"); n != 0 {
		t.Errorf("Subscribers after cancel = %d, want 0", n)
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after cancel")
	}
	hub.Publish(Selection{SessionKey: "s"})
}

func TestSelectionHubDropsOlderVersions(t *testing.T) {
	hub := NewSelectionHub()
	ch, cancel := hub.Subscribe("s")
	defer cancel()

	// a writer that committed first can publish after a later commit
	hub.Publish(Selection{SessionKey: "s", Version: 2, Adults: 2})
	hub.Publish(Selection{SessionKey: "s", Version: 1, Adults: 1})
	hub.Publish(Selection{SessionKey: "s", Version: 2, Adults: 9})

	if got := receive(t, ch); got.Version != 2 || got.Adults != 2 {
		t.Errorf("received %+v, want version 2 with adults 2", got)
	}
	select {
	case sel := <-ch:
		t.Errorf("stale state delivered: %+v", sel)
	default:
	}

	hub.Publish(Selection{SessionKey: "s", Version: 3})
	if got := receive(t, ch); got.Version != 3 {
		t.Errorf("Version = %d, want 3", got.Version)
	}
}

func TestSelectionHubTracksVersionsWithoutSubscribers(t *testing.T) {
	hub := NewSelectionHub()
	hub.Publish(Selection{SessionKey: "s", Version: 4})

	ch, cancel := hub.Subscribe("s")
	defer cancel()
	hub.Publish(Selection{SessionKey: "s", Version: 3})

	select {
	case sel := <-ch:
		t.Errorf("stale state delivered to late subscriber: %+v", sel)
	default:
	}
}
