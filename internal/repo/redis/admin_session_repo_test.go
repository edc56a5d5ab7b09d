package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/johnlatif16/king-store-esport/internal/domain/model"
	adminauthsvc "github.com/johnlatif16/king-store-esport/internal/services/adminauth"
)

func TestAdminSessionRepoRoundTripAndExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewClient(mr.Addr(), "", 0)
	defer func() { _ = client.Close() }()

	repo := NewAdminSessionRepo(client)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	err := repo.Create(ctx, model.AdminSession{
		SID:       "sid-1",
		Username:  "admin",
		IssuedAt:  now,
		ExpiresAt: now.Add(10 * time.Minute),
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if ttl := mr.TTL(adminSessionKey("sid-1")); ttl <= 0 || ttl > 10*time.Minute {
		t.Fatalf("unexpected session ttl: %s", ttl)
	}

	got, err := repo.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.SID != "sid-1" || got.Username != "admin" || !got.IssuedAt.Equal(now) {
		t.Fatalf("unexpected session: %+v", got)
	}

	mr.FastForward(11 * time.Minute)

	if _, err := repo.Get(ctx, "sid-1"); !errors.Is(err, adminauthsvc.ErrSessionNotFound) {
		t.Fatalf("expected not found after ttl, got %v", err)
	}
}

func TestAdminSessionRepoDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewClient(mr.Addr(), "", 0)
	defer func() { _ = client.Close() }()

	repo := NewAdminSessionRepo(client)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := repo.Create(ctx, model.AdminSession{SID: "sid-2", Username: "admin", IssuedAt: now, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := repo.Delete(ctx, "sid-2"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := repo.Get(ctx, "sid-2"); !errors.Is(err, adminauthsvc.ErrSessionNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestAdminSessionRepoRejectsEmptyPayload(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewClient(mr.Addr(), "", 0)
	defer func() { _ = client.Close() }()

	repo := NewAdminSessionRepo(client)
	if err := repo.Create(context.Background(), model.AdminSession{}); !errors.Is(err, adminauthsvc.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestRateRepoHit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewClient(mr.Addr(), "", 0)
	defer func() { _ = client.Close() }()

	repo := NewRateRepo(client)
	ctx := context.Background()

	count, ttl, err := repo.Hit(ctx, "rate:test", time.Minute)
	if err != nil {
		t.Fatalf("hit: %v", err)
	}
	if count != 1 || ttl != time.Minute {
		t.Fatalf("unexpected first window: count=%d ttl=%s", count, ttl)
	}

	mr.FastForward(20 * time.Second)
	count, ttl, err = repo.Hit(ctx, "rate:test", time.Minute)
	if err != nil {
		t.Fatalf("hit: %v", err)
	}
	if count != 2 {
		t.Fatalf("unexpected count: got %d want %d", count, 2)
	}
	if ttl <= 0 || ttl > 40*time.Second {
		t.Fatalf("second hit must keep the window expiry, got %s", ttl)
	}

	mr.FastForward(41 * time.Second)
	count, _, err = repo.Hit(ctx, "rate:test", time.Minute)
	if err != nil {
		t.Fatalf("hit: %v", err)
	}
	if count != 1 {
		t.Fatalf("expired window should restart: got %d want %d", count, 1)
	}
}

func TestRateRepoHitRepairsMissingExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewClient(mr.Addr(), "", 0)
	defer func() { _ = client.Close() }()

	if err := mr.Set("rate:stuck", "7"); err != nil {
		t.Fatalf("seed key: %v", err)
	}

	count, ttl, err := NewRateRepo(client).Hit(context.Background(), "rate:stuck", time.Minute)
	if err != nil {
		t.Fatalf("hit: %v", err)
	}
	if count != 8 || ttl != time.Minute {
		t.Fatalf("unexpected window: count=%d ttl=%s", count, ttl)
	}
	if mr.TTL("rate:stuck") != time.Minute {
		t.Fatalf("expiry was not applied: %s", mr.TTL("rate:stuck"))
	}
}
