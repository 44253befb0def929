package station

import (
	"context"

	"go.uber.org/zap"

	"github.com/woodline/shopterm/domain"
	"github.com/woodline/shopterm/internal/labels"
	"github.com/woodline/shopterm/repository"
)

// Backend is the slice of the backend client the role screens need.
type Backend interface {
	ValidateOrder(ctx context.Context, orderNumber string, facadePrepared bool) (string, error)
	RecordWork(ctx context.Context, record domain.WorkRecord) (string, error)
	FetchLabels(ctx context.Context, username string, onlyPackagingMaterials bool) ([]byte, error)
	FetchLabelByOrder(ctx context.Context, username, orderNumber string) ([]byte, error)
}

// Pipeline is the print side: page extraction, QR rendering, dispatch.
type Pipeline interface {
	ExtractPage(doc *domain.Document, pageIndex int) (string, error)
	PrintFile(ctx context.Context, path string) error
	GenerateQRLabel(text string) (string, error)
}

// Indexer loads fetched manifest bytes into searchable documents.
type Indexer interface {
	Load(data []byte, path string) (*domain.Document, error)
}

// UseCase orchestrates the piecework flows shared by all role screens:
// validate, search, print, record. Printing gates recording: for normal
// work the backend is only told about labels that reached the printer.
type UseCase struct {
	backend  Backend
	pipeline Pipeline
	index    Indexer
	store    repository.SessionStore
	logger   *zap.Logger
}

func New(backend Backend, pipeline Pipeline, index Indexer, store repository.SessionStore, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		backend:  backend,
		pipeline: pipeline,
		index:    index,
		store:    store,
		logger:   logger,
	}
}

// Validate checks an order with the backend before any work proceeds.
func (uc *UseCase) Validate(ctx context.Context, orderNumber string, facadePrepared bool) (string, error) {
	if orderNumber == "" {
		return "", domain.ErrEmptyOrder
	}
	return uc.backend.ValidateOrder(ctx, orderNumber, facadePrepared)
}

// RecordCrewWork reports the completed work for every operator with an
// assigned workplace, credited together as one crew.
func (uc *UseCase) RecordCrewWork(ctx context.Context, orderNumber string, op domain.OperationType) (string, error) {
	crew := uc.store.AllWithWorkplace()
	if len(crew) == 0 {
		return "", domain.ErrNoCrew
	}
	msg, err := uc.backend.RecordWork(ctx, domain.WorkRecord{
		OrderNumber:   orderNumber,
		OperationType: op,
		Employees:     crew,
	})
	if err != nil {
		return "", err
	}
	uc.logger.Info("work recorded",
		zap.String("order", orderNumber),
		zap.String("operation", string(op)),
		zap.Int("crew", len(crew)))
	return msg, nil
}

// FetchManifest downloads the bulk label manifest and indexes it at path.
func (uc *UseCase) FetchManifest(ctx context.Context, onlyPackagingMaterials bool, path string) (*domain.Document, error) {
	username, err := uc.firstUsername()
	if err != nil {
		return nil, err
	}
	data, err := uc.backend.FetchLabels(ctx, username, onlyPackagingMaterials)
	if err != nil {
		return nil, err
	}
	return uc.index.Load(data, path)
}

// FetchOrderManifest downloads the label document for a single order
// and indexes it at path.
func (uc *UseCase) FetchOrderManifest(ctx context.Context, orderNumber, path string) (*domain.Document, error) {
	username, err := uc.firstUsername()
	if err != nil {
		return nil, err
	}
	data, err := uc.backend.FetchLabelByOrder(ctx, username, orderNumber)
	if err != nil {
		return nil, err
	}
	return uc.index.Load(data, path)
}

// Find resolves an order number to a manifest page, exact match first.
func (uc *UseCase) Find(doc *domain.Document, orderNumber string) (domain.PageRef, bool) {
	return labels.Find(doc, orderNumber)
}

// CompleteFromManifest finishes a found order on a manifest screen.
// Defect rework skips printing but is still recorded. Normal work prints
// first and records only after the printer accepted the job; a failed
// print suppresses the record call so nobody is credited for a label
// that never reached the printer.
func (uc *UseCase) CompleteFromManifest(ctx context.Context, doc *domain.Document, ref domain.PageRef, orderNumber string, op domain.OperationType) (string, error) {
	if !op.Printable() {
		return uc.RecordCrewWork(ctx, orderNumber, op)
	}

	path, err := uc.pipeline.ExtractPage(doc, ref.Index)
	if err != nil {
		return "", err
	}
	if err := uc.pipeline.PrintFile(ctx, path); err != nil {
		return "", err
	}
	return uc.RecordCrewWork(ctx, orderNumber, op)
}

// PrintManifestPage prints a found page without recording work, for the
// packer's download-and-print mode.
func (uc *UseCase) PrintManifestPage(ctx context.Context, doc *domain.Document, ref domain.PageRef) error {
	path, err := uc.pipeline.ExtractPage(doc, ref.Index)
	if err != nil {
		return err
	}
	return uc.pipeline.PrintFile(ctx, path)
}

// CompleteSawOrder finishes an order at the saw: a generated QR label is
// printed and the work recorded, with the same print-before-record gate.
func (uc *UseCase) CompleteSawOrder(ctx context.Context, orderNumber string, op domain.OperationType) (string, error) {
	if orderNumber == "" {
		return "", domain.ErrEmptyOrder
	}
	if !op.Printable() {
		return uc.RecordCrewWork(ctx, orderNumber, op)
	}

	path, err := uc.pipeline.GenerateQRLabel(orderNumber)
	if err != nil {
		return "", err
	}
	if err := uc.pipeline.PrintFile(ctx, path); err != nil {
		return "", err
	}
	return uc.RecordCrewWork(ctx, orderNumber, op)
}

func (uc *UseCase) firstUsername() (string, error) {
	first, ok := uc.store.First()
	if !ok {
		return "", domain.ErrNoOperators
	}
	return first.Username, nil
}
