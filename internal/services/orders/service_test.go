package orders

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/johnlatif16/king-store-esport/internal/domain/enums"
	"github.com/johnlatif16/king-store-esport/internal/domain/model"
	"github.com/johnlatif16/king-store-esport/internal/pkg/validate"
	mediasvc "github.com/johnlatif16/king-store-esport/internal/services/media"
	notifysvc "github.com/johnlatif16/king-store-esport/internal/services/notify"
)

var jpeg = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0x02}, 32)...)

type fakeStore struct {
	rows      map[int64]model.Order
	nextID    int64
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[int64]model.Order{}}
}

func (f *fakeStore) Create(_ context.Context, o model.Order) (model.Order, error) {
	if f.createErr != nil {
		return model.Order{}, f.createErr
	}
	f.nextID++
	o.ID = f.nextID
	o.CreatedAt = time.Now().UTC()
	f.rows[o.ID] = o
	return o, nil
}

func (f *fakeStore) List(context.Context) ([]model.Order, error) {
	out := make([]model.Order, 0, len(f.rows))
	for _, o := range f.rows {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (model.Order, error) {
	o, ok := f.rows[id]
	if !ok {
		return model.Order{}, ErrNotFound
	}
	return o, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id int64, status enums.OrderStatus) (model.Order, error) {
	o, ok := f.rows[id]
	if !ok {
		return model.Order{}, ErrNotFound
	}
	o.Status = status
	f.rows[id] = o
	return o, nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) (model.Order, error) {
	o, ok := f.rows[id]
	if !ok {
		return model.Order{}, ErrNotFound
	}
	delete(f.rows, id)
	return o, nil
}

type fakeStorage struct {
	objects   map[string][]byte
	deleteErr error
	deletes   int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) Open(_ context.Context, key string) (mediasvc.Object, error) {
	data, ok := f.objects[key]
	if !ok {
		return mediasvc.Object{}, mediasvc.ErrObjectNotFound
	}
	return mediasvc.Object{Body: io.NopCloser(bytes.NewReader(data)), ContentType: "image/jpeg", Size: int64(len(data))}, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deletes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	kinds []notifysvc.Kind
}

func (r *recordingNotifier) Enqueue(_ context.Context, n notifysvc.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, n.Kind)
}

func newTestService(store *fakeStore, storage *fakeStorage, notifier notifysvc.Enqueuer) *Service {
	return NewService(Dependencies{Store: store, Screenshots: storage, Notifier: notifier}, Config{RequireScreenshot: true})
}

func validInput() SubmitInput {
	return SubmitInput{
		Name:          "Ali",
		PlayerID:      "123",
		Email:         "a@b.com",
		UCAmount:      "660",
		TotalAmount:   "10",
		TransactionID: "TX1",
		Screenshot:    &mediasvc.Upload{FileName: "shot.jpg", Body: bytes.NewReader(jpeg), Size: int64(len(jpeg))},
	}
}

func TestSubmitStoresPendingOrderWithScreenshot(t *testing.T) {
	store := newFakeStore()
	storage := newFakeStorage()
	notifier := &recordingNotifier{}
	svc := newTestService(store, storage, notifier)

	order, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if order.ID <= 0 {
		t.Fatalf("unexpected order id: %d", order.ID)
	}
	if order.Status != enums.OrderStatusPendingPayment {
		t.Fatalf("unexpected status: %s", order.Status)
	}
	if order.Type != enums.PurchaseTypeUC || order.Bundle != "" {
		t.Fatalf("unexpected purchase selection: type=%s bundle=%q", order.Type, order.Bundle)
	}
	if !order.HasScreenshot() {
		t.Fatalf("order should reference its screenshot")
	}
	if len(storage.objects) != 1 {
		t.Fatalf("unexpected stored objects: got %d want %d", len(storage.objects), 1)
	}
	if len(notifier.kinds) != 1 || notifier.kinds[0] != notifysvc.KindNewOrder {
		t.Fatalf("unexpected notifications: %v", notifier.kinds)
	}
	if u := ScreenshotURL(order); u == nil || *u != "/api/admin/orders/1/screenshot" {
		t.Fatalf("unexpected screenshot url: %v", u)
	}
}

func TestSubmitRejectsBothOrNeitherSelection(t *testing.T) {
	for name, mutate := range map[string]func(*SubmitInput){
		"both":    func(in *SubmitInput) { in.Bundle = "starter" },
		"neither": func(in *SubmitInput) { in.UCAmount = "" },
	} {
		store := newFakeStore()
		storage := newFakeStorage()
		svc := newTestService(store, storage, nil)

		in := validInput()
		mutate(&in)
		_, err := svc.Submit(context.Background(), in)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
		if fe, ok := validate.AsFieldError(err); !ok || fe.Field != "ucAmount" {
			t.Fatalf("%s: expected ucAmount field error, got %v", name, err)
		}
		if len(store.rows) != 0 || len(storage.objects) != 0 {
			t.Fatalf("%s: rejected submission must not write rows or files", name)
		}
	}
}

func TestSubmitStoresBundleOrder(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, newFakeStorage(), nil)

	in := validInput()
	in.UCAmount = ""
	in.Bundle = "Prime Plus"
	order, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if order.Type != enums.PurchaseTypeBundle || order.UCAmount != "" || order.Selection() != "Prime Plus" {
		t.Fatalf("unexpected bundle order: %+v", order)
	}
}

func TestSubmitMissingFieldLeavesNoFile(t *testing.T) {
	store := newFakeStore()
	storage := newFakeStorage()
	svc := newTestService(store, storage, nil)

	in := validInput()
	in.TransactionID = "   "
	_, err := svc.Submit(context.Background(), in)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(store.rows) != 0 || len(storage.objects) != 0 {
		t.Fatalf("rejected submission must not write rows or files")
	}
}

func TestSubmitRejectsAmountBeyondColumnRange(t *testing.T) {
	store := newFakeStore()
	storage := newFakeStorage()
	svc := newTestService(store, storage, nil)

	in := validInput()
	in.TotalAmount = "10000000000"
	_, err := svc.Submit(context.Background(), in)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if fe, ok := validate.AsFieldError(err); !ok || fe.Field != "totalAmount" {
		t.Fatalf("expected totalAmount field error, got %v", err)
	}
	if len(store.rows) != 0 || len(storage.objects) != 0 {
		t.Fatalf("rejected submission must not write rows or files")
	}
}

func TestSubmitRequiresScreenshot(t *testing.T) {
	svc := newTestService(newFakeStore(), newFakeStorage(), nil)

	in := validInput()
	in.Screenshot = nil
	if _, err := svc.Submit(context.Background(), in); !errors.Is(err, ErrScreenshotRequired) {
		t.Fatalf("expected ErrScreenshotRequired, got %v", err)
	}
}

func TestSubmitWithoutScreenshotWhenOptional(t *testing.T) {
	store := newFakeStore()
	svc := NewService(Dependencies{Store: store, Screenshots: newFakeStorage()}, Config{RequireScreenshot: false})

	in := validInput()
	in.Screenshot = nil
	order, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if order.HasScreenshot() || ScreenshotURL(order) != nil {
		t.Fatalf("order without upload must not reference a screenshot")
	}
}

func TestSubmitRejectsInvalidFileType(t *testing.T) {
	store := newFakeStore()
	storage := newFakeStorage()
	svc := newTestService(store, storage, nil)

	in := validInput()
	body := []byte("GIF89a not allowed")
	in.Screenshot = &mediasvc.Upload{FileName: "x.jpg", Body: bytes.NewReader(body), Size: int64(len(body))}
	if _, err := svc.Submit(context.Background(), in); !errors.Is(err, mediasvc.ErrInvalidFile) {
		t.Fatalf("expected ErrInvalidFile, got %v", err)
	}
	if len(store.rows) != 0 || len(storage.objects) != 0 {
		t.Fatalf("invalid file must not be stored")
	}
}

func TestSubmitInsertFailureRemovesScreenshot(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("db down")
	storage := newFakeStorage()
	notifier := &recordingNotifier{}
	svc := newTestService(store, storage, notifier)

	if _, err := svc.Submit(context.Background(), validInput()); err == nil {
		t.Fatalf("expected insert error")
	}
	if len(storage.objects) != 0 {
		t.Fatalf("orphaned screenshot left behind")
	}
	if len(notifier.kinds) != 0 {
		t.Fatalf("failed insert must not notify")
	}
}

func TestDeleteRemovesRowAndScreenshot(t *testing.T) {
	store := newFakeStore()
	storage := newFakeStorage()
	svc := newTestService(store, storage, nil)

	order, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := svc.Delete(context.Background(), order.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.rows) != 0 || len(storage.objects) != 0 {
		t.Fatalf("delete must remove both row and file")
	}
}

func TestDeleteWithoutScreenshotOnlyRemovesRow(t *testing.T) {
	store := newFakeStore()
	storage := newFakeStorage()
	svc := NewService(Dependencies{Store: store, Screenshots: storage}, Config{})

	in := validInput()
	in.Screenshot = nil
	order, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := svc.Delete(context.Background(), order.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if storage.deletes != 0 {
		t.Fatalf("no storage delete expected, got %d", storage.deletes)
	}
}

func TestDeleteIgnoresScreenshotRemovalFailure(t *testing.T) {
	store := newFakeStore()
	storage := newFakeStorage()
	svc := newTestService(store, storage, nil)

	order, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	storage.deleteErr = errors.New("disk busy")
	if err := svc.Delete(context.Background(), order.ID); err != nil {
		t.Fatalf("screenshot removal failure must not surface: %v", err)
	}
	if len(store.rows) != 0 {
		t.Fatalf("row should be deleted")
	}
}

func TestUpdateStatusAndMissingID(t *testing.T) {
	store := newFakeStore()
	notifier := &recordingNotifier{}
	svc := newTestService(store, newFakeStorage(), notifier)

	order, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), order.ID, "تم الدفع")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != enums.OrderStatusPaid {
		t.Fatalf("unexpected status: %s", updated.Status)
	}
	if got := notifier.kinds[len(notifier.kinds)-1]; got != notifysvc.KindOrderStatus {
		t.Fatalf("unexpected last notification: %s", got)
	}

	if _, err := svc.UpdateStatus(context.Background(), 999, "paid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), order.ID, "shipped"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if err := svc.Delete(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestOpenScreenshot(t *testing.T) {
	store := newFakeStore()
	storage := newFakeStorage()
	svc := newTestService(store, storage, nil)

	order, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	shot, err := svc.OpenScreenshot(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("open screenshot: %v", err)
	}
	data, _ := io.ReadAll(shot.Body)
	_ = shot.Body.Close()
	if !bytes.Equal(data, jpeg) {
		t.Fatalf("screenshot bytes differ")
	}

	for key := range storage.objects {
		delete(storage.objects, key)
	}
	if _, err := svc.OpenScreenshot(context.Background(), order.ID); !errors.Is(err, mediasvc.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
	if _, err := svc.OpenScreenshot(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitTrimsFields(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, newFakeStorage(), nil)

	in := validInput()
	in.Name = "  Ali  "
	in.Email = " a@b.com "
	order, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if order.Name != "Ali" || strings.TrimSpace(order.Email) != order.Email {
		t.Fatalf("fields were not normalized: %+v", order)
	}
	if order.TotalAmount.String() != "10" {
		t.Fatalf("unexpected amount: %s", order.TotalAmount)
	}
}
