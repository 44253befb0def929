package auth

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/woodline/shopterm/domain"
	"github.com/woodline/shopterm/repository"
)

// Backend is the slice of the backend client this use case needs.
type Backend interface {
	Authorize(ctx context.Context, username, password string) (string, error)
	ListWorkplaces(ctx context.Context, username string) ([]string, error)
}

type UseCase struct {
	backend Backend
	store   repository.SessionStore
	logger  *zap.Logger
}

func New(backend Backend, store repository.SessionStore, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		backend: backend,
		store:   store,
		logger:  logger,
	}
}

// Login performs primary authorization. The backend client stores the
// token on success; the session starts with no workplace assigned.
func (uc *UseCase) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return domain.NewError(domain.ErrCodeInvalid, "enter username and password")
	}
	if _, err := uc.backend.Authorize(ctx, username, password); err != nil {
		return err
	}
	uc.logger.Info("primary operator signed in", zap.String("username", username))
	return nil
}

// PartnerLogin authorizes the second saw operator. The partner must not
// already hold a session, and must have the required workplace in their
// own list; otherwise their freshly created session is removed and
// access is denied.
func (uc *UseCase) PartnerLogin(ctx context.Context, username, password, requiredWorkplace string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return domain.NewError(domain.ErrCodeInvalid, "enter username and password")
	}
	if uc.store.Contains(username) {
		return domain.NewError(domain.ErrCodeInvalid,
			fmt.Sprintf("operator %q is already signed in, use another account", username))
	}

	if _, err := uc.backend.Authorize(ctx, username, password); err != nil {
		return err
	}

	workplaces, err := uc.backend.ListWorkplaces(ctx, username)
	if err != nil {
		uc.store.Remove(username)
		return err
	}
	if !slices.Contains(workplaces, requiredWorkplace) {
		uc.store.Remove(username)
		return domain.NewError(domain.ErrCodeValidation,
			fmt.Sprintf("operator %q has no access to workplace %s", username, requiredWorkplace))
	}

	uc.store.SetWorkplace(username, requiredWorkplace)
	uc.logger.Info("partner operator signed in",
		zap.String("username", username),
		zap.String("workplace", requiredWorkplace))
	return nil
}
