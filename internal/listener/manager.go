package listener

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// SessionRunner serves one operator connection until it ends.
type SessionRunner interface {
	RunSession(ctx context.Context, rw io.ReadWriter) error
}

type ConnectionManager struct {
	runner SessionRunner
}

func NewConnectionManager(runner SessionRunner) *ConnectionManager {
	return &ConnectionManager{
		runner: runner,
	}
}

// AcceptConnection tags the connection with a session id and hands it to the
// session runner.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, protocol string, conn io.ReadWriter) {
	session := uuid.NewString()

	slog.InfoContext(ctx, "console session opened", "session", session, "protocol", protocol)
	if err := m.runner.RunSession(ctx, conn); err != nil {
		slog.WarnContext(ctx, "console session", "session", session, "error", err)
	}
	slog.InfoContext(ctx, "console session closed", "session", session)
}
