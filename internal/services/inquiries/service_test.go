package inquiries

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/johnlatif16/king-store-esport/internal/domain/enums"
	"github.com/johnlatif16/king-store-esport/internal/domain/model"
	notifysvc "github.com/johnlatif16/king-store-esport/internal/services/notify"
)

type fakeStore struct {
	mu        sync.Mutex
	nextID    int64
	items     map[int64]model.Inquiry
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[int64]model.Inquiry{}}
}

func (s *fakeStore) Create(_ context.Context, inquiry model.Inquiry) (model.Inquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return model.Inquiry{}, s.createErr
	}
	s.nextID++
	inquiry.ID = s.nextID
	inquiry.CreatedAt = time.Unix(1700000000, 0).UTC()
	s.items[inquiry.ID] = inquiry
	return inquiry, nil
}

func (s *fakeStore) List(context.Context) ([]model.Inquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Inquiry, 0, len(s.items))
	for id := s.nextID; id > 0; id-- {
		if item, ok := s.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *fakeStore) Get(_ context.Context, id int64) (model.Inquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return model.Inquiry{}, ErrNotFound
	}
	return item, nil
}

func (s *fakeStore) MarkReplied(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	item.Status = enums.InquiryStatusReplied
	item.RepliedAt = &at
	s.items[id] = item
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

type recordingNotifier struct {
	items []notifysvc.Notification
}

func (r *recordingNotifier) Enqueue(_ context.Context, n notifysvc.Notification) {
	r.items = append(r.items, n)
}

type fakeMailer struct {
	err  error
	sent []notifysvc.EmailMessage
}

func (m *fakeMailer) SendEmailNow(_ context.Context, _ notifysvc.Kind, msg notifysvc.EmailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func TestSubmitStoresPendingInquiryAndNotifies(t *testing.T) {
	store := newFakeStore()
	notifier := &recordingNotifier{}
	svc := NewService(store, notifier, &fakeMailer{})

	created, err := svc.Submit(context.Background(), SubmitInput{
		Email:   " player@example.com ",
		Message: "متى يصل الشحن؟",
	})
	if err != nil {
		t.Fatalf("submit inquiry: %v", err)
	}
	if created.ID != 1 || created.Status != enums.InquiryStatusPending {
		t.Fatalf("unexpected inquiry: %+v", created)
	}
	if created.Email != "player@example.com" {
		t.Fatalf("email was not trimmed: %q", created.Email)
	}
	if len(notifier.items) != 1 || notifier.items[0].Kind != notifysvc.KindNewInquiry {
		t.Fatalf("unexpected notifications: %+v", notifier.items)
	}
}

func TestSubmitRejectsMissingMessage(t *testing.T) {
	store := newFakeStore()
	notifier := &recordingNotifier{}
	svc := NewService(store, notifier, &fakeMailer{})

	_, err := svc.Submit(context.Background(), SubmitInput{Name: "Ali", Email: "a@example.com", Message: "   "})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.items) != 0 || len(notifier.items) != 0 {
		t.Fatalf("rejected inquiry must not be stored or announced")
	}
}

func TestReplySendsEmailAndMarksReplied(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc := NewService(store, &recordingNotifier{}, mailer)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	created, err := svc.Submit(context.Background(), SubmitInput{Email: "player@example.com", Message: "سؤال"})
	if err != nil {
		t.Fatalf("submit inquiry: %v", err)
	}

	if err := svc.Reply(context.Background(), ReplyInput{InquiryID: created.ID, Reply: "خلال دقائق"}); err != nil {
		t.Fatalf("reply: %v", err)
	}

	if len(mailer.sent) != 1 || mailer.sent[0].To != "player@example.com" {
		t.Fatalf("reply should go to the stored email: %+v", mailer.sent)
	}
	got, _ := store.Get(context.Background(), created.ID)
	if got.Status != enums.InquiryStatusReplied {
		t.Fatalf("unexpected status: got %s want %s", got.Status, enums.InquiryStatusReplied)
	}
	if got.RepliedAt == nil || !got.RepliedAt.Equal(fixed) {
		t.Fatalf("unexpected replied_at: %v", got.RepliedAt)
	}
}

func TestReplyFailureKeepsPendingStatus(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{err: errors.New("smtp down")}
	svc := NewService(store, &recordingNotifier{}, mailer)

	created, err := svc.Submit(context.Background(), SubmitInput{Email: "player@example.com", Message: "سؤال"})
	if err != nil {
		t.Fatalf("submit inquiry: %v", err)
	}

	err = svc.Reply(context.Background(), ReplyInput{InquiryID: created.ID, Reply: "رد"})
	if !errors.Is(err, ErrReplyFailed) {
		t.Fatalf("expected reply failure, got %v", err)
	}
	got, _ := store.Get(context.Background(), created.ID)
	if got.Status != enums.InquiryStatusPending {
		t.Fatalf("status must stay pending after failed reply, got %s", got.Status)
	}
}

func TestReplyUsesOverrideEmail(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc := NewService(store, &recordingNotifier{}, mailer)

	created, _ := svc.Submit(context.Background(), SubmitInput{Email: "old@example.com", Message: "سؤال"})
	if err := svc.Reply(context.Background(), ReplyInput{InquiryID: created.ID, Email: "new@example.com", Reply: "رد"}); err != nil {
		t.Fatalf("reply: %v", err)
	}
	if mailer.sent[0].To != "new@example.com" {
		t.Fatalf("unexpected recipient: %s", mailer.sent[0].To)
	}
}

func TestReplyValidationAndNotFound(t *testing.T) {
	svc := NewService(newFakeStore(), &recordingNotifier{}, &fakeMailer{})

	if err := svc.Reply(context.Background(), ReplyInput{InquiryID: 1}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for empty reply, got %v", err)
	}
	if err := svc.Reply(context.Background(), ReplyInput{InquiryID: 42, Reply: "رد"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteMissingInquiry(t *testing.T) {
	svc := NewService(newFakeStore(), nil, nil)

	if err := svc.Delete(context.Background(), 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for zero id, got %v", err)
	}
	if err := svc.Delete(context.Background(), 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
