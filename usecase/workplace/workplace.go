package workplace

import (
	"context"

	"go.uber.org/zap"

	"github.com/woodline/shopterm/domain"
	"github.com/woodline/shopterm/repository"
)

// Backend is the slice of the backend client this use case needs.
type Backend interface {
	ListWorkplaces(ctx context.Context, username string) ([]string, error)
}

// Selection describes what confirming a workplace leads to: either a
// role screen directly, or secondary authorization for the paired saw.
type Selection struct {
	Workplace        string
	Role             domain.Role
	NeedsPartner     bool
	PartnerWorkplace string
}

type UseCase struct {
	backend Backend
	store   repository.SessionStore
	sawPair [2]string
	logger  *zap.Logger
}

func New(backend Backend, store repository.SessionStore, sawPair [2]string, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		backend: backend,
		store:   store,
		sawPair: sawPair,
		logger:  logger,
	}
}

// List fetches the workplaces assigned to an operator. Called
// immediately after primary authorization.
func (uc *UseCase) List(ctx context.Context, username string) ([]string, error) {
	return uc.backend.ListWorkplaces(ctx, username)
}

// Select confirms a workplace for the operator and decides the next
// step. Picking either paired saw position requires a second operator
// authorized for the other position before the saw screen opens.
func (uc *UseCase) Select(username, workplace string) Selection {
	uc.store.SetWorkplace(username, workplace)
	uc.logger.Info("workplace selected",
		zap.String("username", username),
		zap.String("workplace", workplace))

	switch workplace {
	case uc.sawPair[0]:
		return Selection{Workplace: workplace, Role: domain.RoleSaw, NeedsPartner: true, PartnerWorkplace: uc.sawPair[1]}
	case uc.sawPair[1]:
		return Selection{Workplace: workplace, Role: domain.RoleSaw, NeedsPartner: true, PartnerWorkplace: uc.sawPair[0]}
	}
	return Selection{Workplace: workplace, Role: roleFor(workplace)}
}

// roleFor maps workplace names to role screens. Names are fixed by the
// plant's workplace directory.
func roleFor(workplace string) domain.Role {
	switch workplace {
	case "Пила-мастер":
		return domain.RoleSaw
	case "Кромщик":
		return domain.RoleEdgeBander
	case "ЧПУ":
		return domain.RoleCNC
	case "Упаковщик":
		return domain.RolePacker
	case "Упаковщик мебели":
		return domain.RoleFurniturePacker
	default:
		return domain.RoleNone
	}
}
