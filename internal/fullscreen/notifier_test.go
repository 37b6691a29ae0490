package fullscreen_test

import (
	"errors"
	"testing"

	"github.com/tessro/reel/internal/fullscreen"
	"github.com/tessro/reel/internal/mock"
)

func TestEnterLeave(t *testing.T) {
	n := fullscreen.New()
	m := mock.NewMedia()

	if _, ok := n.FullscreenElement(); ok {
		t.Fatal("FullscreenElement() reported a holder on a new notifier")
	}

	n.Enter(m, nil)
	el, ok := n.FullscreenElement()
	if !ok || el != m {
		t.Errorf("FullscreenElement() = %v, %v, want the entered media", el, ok)
	}

	// Leaving with media that does not hold fullscreen changes nothing.
	n.Leave(mock.NewMedia())
	if _, ok := n.FullscreenElement(); !ok {
		t.Error("Leave by another media cleared the holder")
	}

	n.Leave(m)
	if _, ok := n.FullscreenElement(); ok {
		t.Error("FullscreenElement() still reports a holder after Leave")
	}
}

func TestSubscriptions(t *testing.T) {
	n := fullscreen.New()
	calls := 0
	cancel := n.OnFullscreenChange(func() { calls++ })

	if got := n.Subscribers(); got != 1 {
		t.Fatalf("Subscribers() = %d, want 1", got)
	}

	m := mock.NewMedia()
	n.Enter(m, nil)
	n.Leave(m)
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}

	cancel()
	cancel()
	if got := n.Subscribers(); got != 0 {
		t.Errorf("Subscribers() = %d after cancel, want 0", got)
	}

	n.Enter(m, nil)
	if calls != 2 {
		t.Errorf("calls = %d after cancel, want 2", calls)
	}
}

func TestSubscriberMayCancelDuringPublish(t *testing.T) {
	n := fullscreen.New()
	var cancel func()
	calls := 0
	cancel = n.OnFullscreenChange(func() {
		calls++
		cancel()
	})

	m := mock.NewMedia()
	n.Enter(m, nil)
	n.Leave(m)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestExitFullscreen(t *testing.T) {
	n := fullscreen.New()
	if err := n.ExitFullscreen(); !errors.Is(err, fullscreen.ErrNotFullscreen) {
		t.Errorf("ExitFullscreen() error = %v, want ErrNotFullscreen", err)
	}

	m := mock.NewMedia()
	n.Enter(m, func() error {
		n.Leave(m)
		return nil
	})
	if err := n.ExitFullscreen(); err != nil {
		t.Fatalf("ExitFullscreen() error = %v", err)
	}
	if _, ok := n.FullscreenElement(); ok {
		t.Error("still fullscreen after ExitFullscreen")
	}

	n.Enter(m, nil)
	if err := n.ExitFullscreen(); err == nil {
		t.Error("ExitFullscreen() without an exit func returned nil")
	}
}
