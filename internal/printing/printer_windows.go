//go:build windows

package printing

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/woodline/shopterm/domain"
)

// SystemPrinter hands documents to the shell's print verb. ShellExecute
// reports acceptance through its instance handle; the x/sys wrapper
// turns handles of 32 and below into an error.
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
	if err := ctx.Err(); err != nil {
		return domain.WrapError(domain.ErrCodePrint, "print aborted", err)
	}

	verb, err := windows.UTF16PtrFromString("print")
	if err != nil {
		return domain.WrapError(domain.ErrCodePrint, "encode print verb", err)
	}
	file, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return domain.WrapError(domain.ErrCodePrint, "encode document path", err)
	}
	cwd, err := windows.UTF16PtrFromString(".")
	if err != nil {
		return domain.WrapError(domain.ErrCodePrint, "encode working directory", err)
	}

	if err := windows.ShellExecute(0, verb, file, nil, cwd, windows.SW_HIDE); err != nil {
		p.logger.Warn("shell print rejected job", zap.String("path", path), zap.Error(err))
		return domain.WrapError(domain.ErrCodePrint, "printer not found or unavailable", err)
	}
	return nil
}
