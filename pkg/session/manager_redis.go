package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
)

type Cmdable interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
}

// SessionManagerRedis layers server-side session tracking over the JWT
// manager: a token is only valid while its session id is still in redis, so
// logout actually revokes.
type SessionManagerRedis struct {
	rdb Cmdable
	jwt SessionManager
}

func NewSessionManagerRedis(rdb Cmdable, jwt SessionManager) *SessionManagerRedis {
	return &SessionManagerRedis{rdb: rdb, jwt: jwt}
}

func (sm *SessionManagerRedis) Create(ctx context.Context, w http.ResponseWriter, id *Identity, sessID string, expiresAt int64) (string, error) {
	token, err := sm.jwt.Create(ctx, w, id, sessID, expiresAt)
	if err != nil {
		return "", err
	}

	err = sm.rdb.Set(ctx, sessID, id.Email, 0).Err()
	if err != nil {
		return "", err
	}

	err = sm.rdb.SAdd(ctx, id.Email, sessID).Err()
	if err != nil {
		return "", err
	}

	return token, nil
}

func (sm *SessionManagerRedis) Check(ctx context.Context, r *http.Request) (*Session, error) {
	sess, err := sm.jwt.Check(ctx, r)
	if err != nil {
		return nil, err
	}

	email, err := sm.rdb.Get(ctx, sess.SessionID).Result()
	if err != nil {
		return nil, err
	}

	if email != sess.Identity.Email {
		return nil, errors.New("wrong user")
	}

	return sess, nil
}

func (sm *SessionManagerRedis) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	sess, err := SessionFromContext(r.Context())
	if err != nil {
		return err
	}

	err = sm.rdb.Del(ctx, sess.SessionID).Err()
	if err != nil {
		return err
	}

	return nil
}

func (sm *SessionManagerRedis) DestroyAll(ctx context.Context, id *Identity) error {
	sessionIDs, err := sm.rdb.SMembers(ctx, id.Email).Result()
	if err != nil {
		return err
	}

	err = sm.rdb.Del(ctx, sessionIDs...).Err()
	if err != nil {
		return err
	}

	return nil
}
