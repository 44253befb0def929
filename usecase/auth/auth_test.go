package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/woodline/shopterm/domain"
	"github.com/woodline/shopterm/repository"
	"github.com/woodline/shopterm/repository/memory"
)

// fakeBackend mimics the real client: a successful Authorize upserts the
// session into the store.
type fakeBackend struct {
	store      repository.SessionStore
	authErr    error
	workplaces map[string][]string
	listErr    error
}

func (b *fakeBackend) Authorize(_ context.Context, username, password string) (string, error) {
	if b.authErr != nil {
		return "", b.authErr
	}
	token := "tok-" + username
	b.store.Upsert(username, token)
	return token, nil
}

func (b *fakeBackend) ListWorkplaces(_ context.Context, username string) ([]string, error) {
	if b.listErr != nil {
		return nil, b.listErr
	}
	return b.workplaces[username], nil
}

func TestLoginRejectsBlankCredentials(t *testing.T) {
	store := memory.NewSessionStore()
	uc := New(&fakeBackend{store: store}, store, nil)

	err := uc.Login(context.Background(), "  ", "")
	require.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	require.Zero(t, store.Len())
}

func TestLoginPassesThroughBackendFailure(t *testing.T) {
	store := memory.NewSessionStore()
	uc := New(&fakeBackend{store: store, authErr: domain.ErrBadCredentials}, store, nil)

	err := uc.Login(context.Background(), "ivan", "wrong")
	require.ErrorIs(t, err, domain.ErrBadCredentials)
}

func TestLoginTrimsUsername(t *testing.T) {
	store := memory.NewSessionStore()
	uc := New(&fakeBackend{store: store}, store, nil)

	require.NoError(t, uc.Login(context.Background(), " ivan ", "secret"))
	require.True(t, store.Contains("ivan"))
}

func TestPartnerLoginAssignsWorkplace(t *testing.T) {
	store := memory.NewSessionStore()
	backend := &fakeBackend{
		store:      store,
		workplaces: map[string][]string{"pavel": {"Пила-2", "ЧПУ"}},
	}
	uc := New(backend, store, nil)
	store.Upsert("ivan", "tok-ivan")

	require.NoError(t, uc.PartnerLogin(context.Background(), "pavel", "secret", "Пила-2"))

	sess, ok := store.Lookup("pavel")
	require.True(t, ok)
	require.Equal(t, "Пила-2", sess.Workplace)
	require.Equal(t, 2, store.Len())
}

func TestPartnerLoginRejectsDuplicateOperator(t *testing.T) {
	store := memory.NewSessionStore()
	backend := &fakeBackend{store: store}
	uc := New(backend, store, nil)
	store.Upsert("ivan", "tok-ivan")

	err := uc.PartnerLogin(context.Background(), "ivan", "secret", "Пила-2")
	require.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	require.Equal(t, 1, store.Len())
}

func TestPartnerLoginRemovesSessionWithoutRequiredWorkplace(t *testing.T) {
	store := memory.NewSessionStore()
	backend := &fakeBackend{
		store:      store,
		workplaces: map[string][]string{"pavel": {"ЧПУ"}},
	}
	uc := New(backend, store, nil)
	store.Upsert("ivan", "tok-ivan")

	err := uc.PartnerLogin(context.Background(), "pavel", "secret", "Пила-2")
	require.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))

	// the partner's half-made session must not linger
	require.False(t, store.Contains("pavel"))
	require.Equal(t, 1, store.Len())
}

func TestPartnerLoginRemovesSessionOnWorkplaceLookupFailure(t *testing.T) {
	store := memory.NewSessionStore()
	backend := &fakeBackend{
		store:   store,
		listErr: domain.NewError(domain.ErrCodeServer, "server error 500"),
	}
	uc := New(backend, store, nil)

	err := uc.PartnerLogin(context.Background(), "pavel", "secret", "Пила-2")
	require.True(t, domain.IsDomainError(err, domain.ErrCodeServer))
	require.False(t, store.Contains("pavel"))
}
