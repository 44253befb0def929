package sound

import (
	"os"

	"go.uber.org/zap"
)

// Alerter plays the audible attention signal. Playback itself is an
// external collaborator; implementations must never block the caller
// on failure.
type Alerter interface {
	Alert()
}

// Nop discards alerts, for tests and headless runs.
type Nop struct{}

func (Nop) Alert() {}

// Bell rings the terminal bell. Shop terminals route stdout to the
// operator console, so the BEL byte reaches the station speaker.
type Bell struct {
	logger *zap.Logger
}

// NewBell creates a terminal-bell alerter.
func NewBell(logger *zap.Logger) *Bell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bell{logger: logger}
}

func (b *Bell) Alert() {
	if _, err := os.Stdout.Write([]byte{'\a'}); err != nil {
		b.logger.Warn("failed to ring alert bell", zap.Error(err))
	}
}
