package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yunusemrekoyun/fast-food-app/internal/domain/entity"
	"github.com/yunusemrekoyun/fast-food-app/internal/domain/repository"
	"github.com/yunusemrekoyun/fast-food-app/pkg/helpers"
)

const sessionTTL = 24 * time.Hour

func sessionKey(userID string) string {
	return helpers.RedisKey("user", "session", userID)
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// SessionStore keeps sessions as Redis hashes under user:session:<uid>.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func (s *SessionStore) Put(ctx context.Context, sess entity.Session) error {
	key := sessionKey(sess.UserID)
	created := sess.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    sess.UserID,
		"sid":        sess.SessionID,
		"email":      sess.Email,
		"name":       sess.Name,
		"avatar_url": sess.AvatarURL,
		"logged_in":  true,
		"created_at": created.UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, sessionTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Get(ctx context.Context, userID string) (*entity.Session, error) {
	data, err := s.rdb.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || data["sid"] == "" {
		return nil, repository.ErrNotFound
	}
	sess := &entity.Session{
		UserID:    data["user_id"],
		SessionID: data["sid"],
		Email:     data["email"],
		Name:      data["name"],
		AvatarURL: data["avatar_url"],
	}
	if t, err := time.Parse(time.RFC3339Nano, data["created_at"]); err == nil {
		sess.CreatedAt = t
	}
	return sess, nil
}

// Touch updates some fields of a live session and keeps its remaining TTL.
func (s *SessionStore) Touch(ctx context.Context, userID string, fields map[string]any) error {
	key := sessionKey(userID)
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	values := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		values[k] = v
	}
	values["updated_at"] = nowRFC3339()

	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, key, values)
	if ttl, tErr := s.rdb.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}

var _ repository.SessionRepository = (*SessionStore)(nil)
