package station

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/woodline/shopterm/domain"
	"github.com/woodline/shopterm/repository"
	"github.com/woodline/shopterm/repository/memory"
)

type fakeBackend struct {
	validateMsg string
	validateErr error
	recordMsg   string
	recordErr   error
	labelData   []byte
	labelErr    error

	validated []string
	records   []domain.WorkRecord
	fetches   []bool
	orders    []string
}

func (b *fakeBackend) ValidateOrder(_ context.Context, orderNumber string, _ bool) (string, error) {
	b.validated = append(b.validated, orderNumber)
	return b.validateMsg, b.validateErr
}

func (b *fakeBackend) RecordWork(_ context.Context, record domain.WorkRecord) (string, error) {
	b.records = append(b.records, record)
	return b.recordMsg, b.recordErr
}

func (b *fakeBackend) FetchLabels(_ context.Context, _ string, onlyPackagingMaterials bool) ([]byte, error) {
	b.fetches = append(b.fetches, onlyPackagingMaterials)
	return b.labelData, b.labelErr
}

func (b *fakeBackend) FetchLabelByOrder(_ context.Context, _ string, orderNumber string) ([]byte, error) {
	b.orders = append(b.orders, orderNumber)
	return b.labelData, b.labelErr
}

type fakePipeline struct {
	extractErr error
	printErr   error
	qrErr      error

	calls []string
}

func (p *fakePipeline) ExtractPage(_ *domain.Document, pageIndex int) (string, error) {
	p.calls = append(p.calls, "extract")
	if p.extractErr != nil {
		return "", p.extractErr
	}
	return "/tmp/page.pdf", nil
}

func (p *fakePipeline) PrintFile(_ context.Context, path string) error {
	p.calls = append(p.calls, "print "+path)
	return p.printErr
}

func (p *fakePipeline) GenerateQRLabel(text string) (string, error) {
	p.calls = append(p.calls, "qr "+text)
	if p.qrErr != nil {
		return "", p.qrErr
	}
	return "/tmp/qr_print.pdf", nil
}

type fakeIndex struct {
	doc  *domain.Document
	data []byte
	path string
}

func (i *fakeIndex) Load(data []byte, path string) (*domain.Document, error) {
	i.data = data
	i.path = path
	return i.doc, nil
}

func crewStore(usernames ...string) repository.SessionStore {
	store := memory.NewSessionStore()
	for _, name := range usernames {
		store.Upsert(name, "tok-"+name)
		store.SetWorkplace(name, "Упаковщик")
	}
	return store
}

func manifest() *domain.Document {
	return &domain.Document{
		Path:  "/tmp/packages.pdf",
		Pages: []domain.Page{{Lines: []string{"77-001"}}, {Lines: []string{"77-002"}}},
	}
}

func TestCompleteFromManifestPrintsThenRecords(t *testing.T) {
	backend := &fakeBackend{recordMsg: "credited"}
	pipeline := &fakePipeline{}
	uc := New(backend, pipeline, &fakeIndex{}, crewStore("ivan", "pavel"), nil)

	doc := manifest()
	msg, err := uc.CompleteFromManifest(context.Background(), doc, domain.PageRef{Index: 1}, "77-002", domain.OperationEarning)
	require.NoError(t, err)
	require.Equal(t, "credited", msg)

	require.Equal(t, []string{"extract", "print /tmp/page.pdf"}, pipeline.calls)
	require.Len(t, backend.records, 1)
	require.Equal(t, domain.WorkRecord{
		OrderNumber:   "77-002",
		OperationType: domain.OperationEarning,
		Employees: []domain.Employee{
			{Username: "ivan", Workplace: "Упаковщик"},
			{Username: "pavel", Workplace: "Упаковщик"},
		},
	}, backend.records[0])
}

func TestCompleteFromManifestPrintFailureSuppressesRecord(t *testing.T) {
	backend := &fakeBackend{}
	pipeline := &fakePipeline{printErr: domain.NewError(domain.ErrCodePrint, "printer not found or unavailable")}
	uc := New(backend, pipeline, &fakeIndex{}, crewStore("ivan"), nil)

	_, err := uc.CompleteFromManifest(context.Background(), manifest(), domain.PageRef{Index: 0}, "77-001", domain.OperationEarning)
	require.True(t, domain.IsDomainError(err, domain.ErrCodePrint))
	require.Empty(t, backend.records)
}

func TestCompleteFromManifestExtractFailureStopsPipeline(t *testing.T) {
	backend := &fakeBackend{}
	pipeline := &fakePipeline{extractErr: domain.NewError(domain.ErrCodeParse, "page out of range")}
	uc := New(backend, pipeline, &fakeIndex{}, crewStore("ivan"), nil)

	_, err := uc.CompleteFromManifest(context.Background(), manifest(), domain.PageRef{Index: 0}, "77-001", domain.OperationEarning)
	require.Error(t, err)
	require.Equal(t, []string{"extract"}, pipeline.calls)
	require.Empty(t, backend.records)
}

func TestCompleteFromManifestDefectSkipsPrinting(t *testing.T) {
	backend := &fakeBackend{recordMsg: "penalty recorded"}
	pipeline := &fakePipeline{}
	uc := New(backend, pipeline, &fakeIndex{}, crewStore("ivan"), nil)

	msg, err := uc.CompleteFromManifest(context.Background(), manifest(), domain.PageRef{Index: 0}, "77-001", domain.OperationPenalty)
	require.NoError(t, err)
	require.Equal(t, "penalty recorded", msg)

	require.Empty(t, pipeline.calls)
	require.Len(t, backend.records, 1)
	require.Equal(t, domain.OperationPenalty, backend.records[0].OperationType)
}

func TestRecordCrewWorkRequiresAssignedWorkplaces(t *testing.T) {
	backend := &fakeBackend{}
	store := memory.NewSessionStore()
	store.Upsert("ivan", "tok") // authorized but no workplace selected
	uc := New(backend, &fakePipeline{}, &fakeIndex{}, store, nil)

	_, err := uc.RecordCrewWork(context.Background(), "77-001", domain.OperationEarning)
	require.ErrorIs(t, err, domain.ErrNoCrew)
	require.Empty(t, backend.records)
}

func TestCompleteSawOrderPrintsGeneratedLabel(t *testing.T) {
	backend := &fakeBackend{recordMsg: "credited"}
	pipeline := &fakePipeline{}
	uc := New(backend, pipeline, &fakeIndex{}, crewStore("ivan", "pavel"), nil)

	msg, err := uc.CompleteSawOrder(context.Background(), "77-001", domain.OperationEarning)
	require.NoError(t, err)
	require.Equal(t, "credited", msg)
	require.Equal(t, []string{"qr 77-001", "print /tmp/qr_print.pdf"}, pipeline.calls)
	require.Len(t, backend.records, 1)
}

func TestCompleteSawOrderPrintFailureSuppressesRecord(t *testing.T) {
	backend := &fakeBackend{}
	pipeline := &fakePipeline{printErr: domain.NewError(domain.ErrCodePrint, "printer not found or unavailable")}
	uc := New(backend, pipeline, &fakeIndex{}, crewStore("ivan"), nil)

	_, err := uc.CompleteSawOrder(context.Background(), "77-001", domain.OperationEarning)
	require.True(t, domain.IsDomainError(err, domain.ErrCodePrint))
	require.Empty(t, backend.records)
}

func TestCompleteSawOrderDefectRecordsWithoutLabel(t *testing.T) {
	backend := &fakeBackend{recordMsg: "penalty recorded"}
	pipeline := &fakePipeline{}
	uc := New(backend, pipeline, &fakeIndex{}, crewStore("ivan"), nil)

	_, err := uc.CompleteSawOrder(context.Background(), "77-001", domain.OperationPenalty)
	require.NoError(t, err)
	require.Empty(t, pipeline.calls)
	require.Len(t, backend.records, 1)
}

func TestCompleteSawOrderRejectsEmptyOrder(t *testing.T) {
	uc := New(&fakeBackend{}, &fakePipeline{}, &fakeIndex{}, crewStore("ivan"), nil)
	_, err := uc.CompleteSawOrder(context.Background(), "", domain.OperationEarning)
	require.ErrorIs(t, err, domain.ErrEmptyOrder)
}

func TestPrintManifestPageNeverRecords(t *testing.T) {
	backend := &fakeBackend{}
	pipeline := &fakePipeline{}
	uc := New(backend, pipeline, &fakeIndex{}, crewStore("ivan"), nil)

	err := uc.PrintManifestPage(context.Background(), manifest(), domain.PageRef{Index: 0})
	require.NoError(t, err)
	require.Equal(t, []string{"extract", "print /tmp/page.pdf"}, pipeline.calls)
	require.Empty(t, backend.records)
}

func TestFetchManifestIndexesDownloadedBytes(t *testing.T) {
	backend := &fakeBackend{labelData: []byte("%PDF-1.7")}
	index := &fakeIndex{doc: manifest()}
	uc := New(backend, &fakePipeline{}, index, crewStore("ivan"), nil)

	doc, err := uc.FetchManifest(context.Background(), true, "/tmp/packages_mebel.pdf")
	require.NoError(t, err)
	require.Same(t, index.doc, doc)
	require.Equal(t, []bool{true}, backend.fetches)
	require.Equal(t, []byte("%PDF-1.7"), index.data)
	require.Equal(t, "/tmp/packages_mebel.pdf", index.path)
}

func TestFetchManifestRequiresOperator(t *testing.T) {
	uc := New(&fakeBackend{}, &fakePipeline{}, &fakeIndex{}, memory.NewSessionStore(), nil)
	_, err := uc.FetchManifest(context.Background(), false, "/tmp/packages.pdf")
	require.ErrorIs(t, err, domain.ErrNoOperators)
}

func TestFetchOrderManifest(t *testing.T) {
	backend := &fakeBackend{labelData: []byte("%PDF-1.7")}
	index := &fakeIndex{doc: manifest()}
	uc := New(backend, &fakePipeline{}, index, crewStore("ivan"), nil)

	doc, err := uc.FetchOrderManifest(context.Background(), "77-001", "/tmp/single_package.pdf")
	require.NoError(t, err)
	require.Same(t, index.doc, doc)
	require.Equal(t, []string{"77-001"}, backend.orders)
}

func TestValidateRejectsEmptyOrderLocally(t *testing.T) {
	backend := &fakeBackend{}
	uc := New(backend, &fakePipeline{}, &fakeIndex{}, crewStore("ivan"), nil)

	_, err := uc.Validate(context.Background(), "", false)
	require.ErrorIs(t, err, domain.ErrEmptyOrder)
	require.Empty(t, backend.validated)
}
