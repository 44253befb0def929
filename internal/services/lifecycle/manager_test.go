package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/woodline/shopterm/domain"
)

func TestShutdownRunsHooksInReverseOrder(t *testing.T) {
	m := New(time.Second, nil)

	var order []string
	m.Register("runner", func(ctx context.Context) error {
		order = append(order, "runner")
		return nil
	})
	m.Register("console", func(ctx context.Context) error {
		order = append(order, "console")
		return nil
	})

	require.NoError(t, m.Shutdown(context.Background()))
	require.Equal(t, []string{"console", "runner"}, order)
}

func TestShutdownConsumesHooks(t *testing.T) {
	m := New(time.Second, nil)

	calls := 0
	m.Register("runner", func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))
	require.Equal(t, 1, calls)
}

func TestShutdownJoinsHookFailures(t *testing.T) {
	m := New(time.Second, nil)

	hookErr := domain.NewError(domain.ErrCodeServer, "drain failed")
	m.Register("broken", func(ctx context.Context) error { return hookErr })
	m.Register("fine", func(ctx context.Context) error { return nil })

	err := m.Shutdown(context.Background())
	require.ErrorIs(t, err, hookErr)
}

func TestShutdownBoundsHooksByTimeout(t *testing.T) {
	m := New(20*time.Millisecond, nil)

	m.Register("stuck", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	err := m.Shutdown(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
