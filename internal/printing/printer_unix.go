//go:build !windows

package printing

import (
	"context"
	"os/exec"

	"go.uber.org/zap"

	"github.com/woodline/shopterm/domain"
)

// SystemPrinter queues documents through the CUPS lp command. A zero
// exit status means the spooler accepted the job.
type SystemPrinter struct {
	logger *zap.Logger
}

// NewSystemPrinter creates the OS print dispatcher.
func NewSystemPrinter(logger *zap.Logger) *SystemPrinter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SystemPrinter{logger: logger}
}

func (p *SystemPrinter) PrintFile(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, "lp", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		p.logger.Warn("lp rejected job", zap.ByteString("output", out), zap.Error(err))
		return domain.WrapError(domain.ErrCodePrint, "printer not found or unavailable", err)
	}
	return nil
}
