package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pixil98/go-nopower/internal/game"
	"github.com/pixil98/go-testutil"
)

func startInProcess(t *testing.T) (*NatsServer, context.Context) {
	t.Helper()

	s, err := NewNatsServer(WithInProcess(), WithStartTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("server stopped with error: %v", err)
		}
	})

	waitCtx, waitCancel := context.WithTimeout(ctx, 5*time.Second)
	defer waitCancel()
	if err := s.WaitReady(waitCtx); err != nil {
		t.Fatalf("server not ready: %v", err)
	}

	return s, ctx
}

func TestNatsServer_PublishSubscribe(t *testing.T) {
	s, _ := startInProcess(t)

	got := make(chan string, 1)
	unsub, err := s.Subscribe(EntitySubject(3), func(data []byte) {
		got <- string(data)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer unsub()

	turret := game.NewTurret(3, game.Vec3{}, 0.6)
	if err := turret.SetOnline(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := NewNatsPublisher(s).SendNetworkUpdate(context.Background(), turret); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case raw := <-got:
		var snap game.Snapshot
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, "snapshot", snap, game.Snapshot{Id: 3, Kind: game.KindTurret, Online: true})
	case <-time.After(5 * time.Second):
		t.Fatal("no update received")
	}
}

func TestInputListener_Start(t *testing.T) {
	s, ctx := startInProcess(t)
	w := game.NewWorldState()

	go func() {
		_ = NewInputListener(s, w).Start(ctx)
	}()

	// Frames sent before the listener subscribes are dropped, so keep sending.
	frame := []byte(`{"user_id":9,"name":"dave","buttons":"USE"}`)
	deadline := time.Now().Add(5 * time.Second)
	for w.Player(9) == nil {
		if time.Now().After(deadline) {
			t.Fatal("input frame never applied")
		}
		if err := s.Publish(InputSubject, frame); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	p := w.Player(9)
	testutil.AssertEqual(t, "name", p.Name(), "dave")
	testutil.AssertEqual(t, "buttons", p.Input().Current, game.ButtonUse)
}

func TestNatsServer_NotStarted(t *testing.T) {
	s, err := NewNatsServer(WithInProcess())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = s.Publish(InputSubject, nil)
	testutil.AssertErrorContains(t, err, "nats server not started")

	_, err = s.Subscribe(InputSubject, func([]byte) {})
	testutil.AssertErrorContains(t, err, "nats server not started")
}
