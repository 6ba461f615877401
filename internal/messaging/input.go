package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-nopower/internal/game"
)

// InputListener applies client input frames from the input subject to the world.
type InputListener struct {
	server *NatsServer
	world  *game.WorldState
}

func NewInputListener(server *NatsServer, world *game.WorldState) *InputListener {
	return &InputListener{server: server, world: world}
}

func (l *InputListener) Start(ctx context.Context) error {
	if err := l.server.WaitReady(ctx); err != nil {
		return nil
	}

	unsub, err := l.server.Subscribe(InputSubject, func(data []byte) {
		if err := l.handle(data); err != nil {
			slog.WarnContext(ctx, "dropping input frame", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to input: %w", err)
	}

	<-ctx.Done()
	unsub()
	return nil
}

func (l *InputListener) handle(data []byte) error {
	var f game.InputFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decoding frame: %w", err)
	}
	if f.UserId == 0 {
		return fmt.Errorf("frame has no user_id")
	}

	if f.Leave {
		l.world.RemovePlayer(f.UserId)
		return nil
	}

	l.world.ApplyInput(f)
	return nil
}
