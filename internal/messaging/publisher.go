package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-nopower/internal/game"
)

const InputSubject = "input"

// EntitySubject is where structure snapshots are published.
func EntitySubject(id game.EntityId) string {
	return fmt.Sprintf("entity.%d", id)
}

// ChatSubject is where chat lines for a player are published.
func ChatSubject(id game.UserId) string {
	return fmt.Sprintf("player.%d.chat", id)
}

type ChatPayload struct {
	Message string `json:"message"`
}

// Publisher is anything that can put bytes on a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NatsPublisher sends replication updates and chat lines to clients.
type NatsPublisher struct {
	pub Publisher
}

func NewNatsPublisher(pub Publisher) *NatsPublisher {
	return &NatsPublisher{pub: pub}
}

func (p *NatsPublisher) SendNetworkUpdate(_ context.Context, s *game.Structure) error {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}
	if err := p.pub.Publish(EntitySubject(s.Id), data); err != nil {
		return fmt.Errorf("publishing update for %d: %w", s.Id, err)
	}
	return nil
}

func (p *NatsPublisher) ChatMessage(_ context.Context, to game.UserId, msg string) error {
	data, err := json.Marshal(ChatPayload{Message: msg})
	if err != nil {
		return fmt.Errorf("marshalling chat: %w", err)
	}
	if err := p.pub.Publish(ChatSubject(to), data); err != nil {
		return fmt.Errorf("publishing chat to %d: %w", to, err)
	}
	return nil
}
