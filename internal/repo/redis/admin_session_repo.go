package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/johnlatif16/king-store-esport/internal/domain/model"
	adminauthsvc "github.com/johnlatif16/king-store-esport/internal/services/adminauth"
)

const adminSessionPrefix = "admin_sessions:"

type AdminSessionRepo struct {
	client *goredis.Client
}

func NewAdminSessionRepo(client *goredis.Client) *AdminSessionRepo {
	return &AdminSessionRepo{client: client}
}

func (r *AdminSessionRepo) Create(ctx context.Context, session model.AdminSession) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(session.SID) == "" || strings.TrimSpace(session.Username) == "" {
		return adminauthsvc.ErrInvalidInput
	}

	key := adminSessionKey(session.SID)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"username":   session.Username,
		"issued_at":  session.IssuedAt.Unix(),
		"expires_at": session.ExpiresAt.Unix(),
	})
	pipe.Expire(ctx, key, ttlFor(session.ExpiresAt))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create admin session: %w", err)
	}
	return nil
}

func (r *AdminSessionRepo) Get(ctx context.Context, sid string) (model.AdminSession, error) {
	if r.client == nil {
		return model.AdminSession{}, fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(sid) == "" {
		return model.AdminSession{}, adminauthsvc.ErrSessionNotFound
	}

	values, err := r.client.HGetAll(ctx, adminSessionKey(sid)).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return model.AdminSession{}, fmt.Errorf("get admin session: %w", err)
	}
	if len(values) == 0 {
		return model.AdminSession{}, adminauthsvc.ErrSessionNotFound
	}

	session, err := parseAdminSession(values)
	if err != nil {
		return model.AdminSession{}, err
	}
	session.SID = sid
	return session, nil
}

func (r *AdminSessionRepo) Delete(ctx context.Context, sid string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, adminSessionKey(sid)).Err(); err != nil {
		return fmt.Errorf("delete admin session: %w", err)
	}
	return nil
}

func parseAdminSession(values map[string]string) (model.AdminSession, error) {
	username := strings.TrimSpace(values["username"])
	if username == "" {
		return model.AdminSession{}, adminauthsvc.ErrSessionNotFound
	}
	issuedAt, err := strconv.ParseInt(values["issued_at"], 10, 64)
	if err != nil {
		return model.AdminSession{}, fmt.Errorf("parse session issued_at: %w", err)
	}
	expiresAt, err := strconv.ParseInt(values["expires_at"], 10, 64)
	if err != nil {
		return model.AdminSession{}, fmt.Errorf("parse session expires_at: %w", err)
	}
	return model.AdminSession{
		Username:  username,
		IssuedAt:  time.Unix(issuedAt, 0).UTC(),
		ExpiresAt: time.Unix(expiresAt, 0).UTC(),
	}, nil
}

func ttlFor(expiresAt time.Time) time.Duration {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}

func adminSessionKey(sid string) string {
	return adminSessionPrefix + sid
}
