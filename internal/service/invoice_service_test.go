package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tadka-store/internal/invoice"
	"github.com/tadka-store/internal/models"
)

type stubRenderer struct {
	err      error
	panicMsg string
	calls    int
}

func (r *stubRenderer) Render(doc invoice.Document) ([]byte, error) {
	r.calls++
	if r.panicMsg != "" {
		panic(r.panicMsg)
	}
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-stub " + doc.OrderNo), nil
}

type failingStorage struct {
	invoice.Storage
}

func (failingStorage) Save(string, []byte) (string, error) {
	return "", errors.New("read-only filesystem")
}

func checkoutOneItem(t *testing.T, f *serviceFixture, sessionKey string) *models.Order {
	t.Helper()
	item := f.createMenuItem(t, "Chole Bhature", "100.00", "18")
	cart := f.sessionCart(t, sessionKey)
	f.addItem(t, cart, item.ID, 2)
	order, err := f.checkout.Checkout(context.Background(), CheckoutInput{
		Identity: Identity{SessionKey: sessionKey},
		Customer: validCustomer(),
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	return order
}

func TestRendererFailureLeavesOrderUnmodified(t *testing.T) {
	renderer := &stubRenderer{err: errors.New("font missing")}
	f := newServiceFixture(t, renderer)
	order := checkoutOneItem(t, f, "sess-render-fail")

	stored, err := f.orderRepo.GetByID(order.ID)
	if err != nil || stored == nil {
		t.Fatalf("load order failed: %v", err)
	}
	if stored.InvoiceGenerated || stored.InvoiceFile != "" {
		t.Fatalf("order should be unmodified after render failure: %+v", stored)
	}

	result, err := f.invoices.Generate(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("render failure must not surface as error: %v", err)
	}
	if result.Generated || result.Err == nil {
		t.Fatalf("expected typed failure, got %+v", result)
	}
	if result.Err.Stage != invoice.StageRender {
		t.Fatalf("expected render stage, got %s", result.Err.Stage)
	}
	var renderErr *invoice.RenderError
	if !errors.As(result.Err, &renderErr) || renderErr.OrderID != order.ID {
		t.Fatalf("expected RenderError for order %d, got %v", order.ID, result.Err)
	}
}

func TestRendererPanicIsRecovered(t *testing.T) {
	renderer := &stubRenderer{panicMsg: "nil font"}
	f := newServiceFixture(t, renderer)
	order := checkoutOneItem(t, f, "sess-render-panic")

	result, err := f.invoices.Generate(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Generated || result.Err == nil || result.Err.Stage != invoice.StageRender {
		t.Fatalf("expected recovered render failure, got %+v", result)
	}
}

func TestStorageFailureReportsStoreStage(t *testing.T) {
	db := setupServiceTestDB(t)
	base, err := invoice.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("init storage failed: %v", err)
	}
	f := newServiceFixtureWithStorage(t, db, &stubRenderer{}, failingStorage{Storage: base})
	order := checkoutOneItem(t, f, "sess-store-fail")

	result, err := f.invoices.Generate(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Generated || result.Err == nil || result.Err.Stage != invoice.StageStore {
		t.Fatalf("expected store failure, got %+v", result)
	}
	stored, _ := f.orderRepo.GetByID(order.ID)
	if stored.InvoiceGenerated {
		t.Fatalf("order should stay without invoice")
	}
}

func TestGenerateSkipsExistingInvoice(t *testing.T) {
	renderer := &stubRenderer{}
	f := newServiceFixture(t, renderer)
	order := checkoutOneItem(t, f, "sess-idempotent")
	if renderer.calls != 1 {
		t.Fatalf("checkout should render once, got %d", renderer.calls)
	}

	result, err := f.invoices.Generate(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !result.Generated || result.Path == "" {
		t.Fatalf("expected existing invoice, got %+v", result)
	}
	if renderer.calls != 1 {
		t.Fatalf("existing invoice should not be re-rendered, calls=%d", renderer.calls)
	}

	if _, err := f.invoices.Regenerate(context.Background(), order.ID); err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}
	if renderer.calls != 2 {
		t.Fatalf("regenerate should render again, calls=%d", renderer.calls)
	}
}

func TestGenerateUnknownOrder(t *testing.T) {
	f := newServiceFixture(t, &stubRenderer{})
	if _, err := f.invoices.Generate(context.Background(), 4242); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
}

func TestDocumentServesStoredInvoice(t *testing.T) {
	f := newServiceFixture(t, &stubRenderer{})
	order := checkoutOneItem(t, f, "sess-document")
	stored, _ := f.orderRepo.GetByID(order.ID)

	data, err := f.invoices.Document(context.Background(), stored)
	if err != nil {
		t.Fatalf("document failed: %v", err)
	}
	if string(data) != "%PDF-stub "+order.OrderNo {
		t.Fatalf("unexpected document: %q", data)
	}
}

func TestDocumentUnavailableWhenGenerationFails(t *testing.T) {
	f := newServiceFixture(t, &stubRenderer{err: errors.New("boom")})
	order := checkoutOneItem(t, f, "sess-document-fail")
	stored, _ := f.orderRepo.GetByID(order.ID)

	if _, err := f.invoices.Document(context.Background(), stored); !errors.Is(err, ErrInvoiceUnavailable) {
		t.Fatalf("expected invoice unavailable, got %v", err)
	}
}

func TestBackfillPendingGeneratesMissingInvoices(t *testing.T) {
	renderer := &stubRenderer{err: errors.New("temporarily broken")}
	f := newServiceFixture(t, renderer)
	order := checkoutOneItem(t, f, "sess-backfill")

	renderer.err = nil
	generated, err := f.invoices.BackfillPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("backfill failed: %v", err)
	}
	if generated != 1 {
		t.Fatalf("expected 1 generated invoice, got %d", generated)
	}
	stored, _ := f.orderRepo.GetByID(order.ID)
	if !stored.InvoiceGenerated {
		t.Fatalf("order invoice should be generated after backfill")
	}
}
