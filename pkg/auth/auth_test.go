package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{SecretKey: "secret", Issuer: "photoshare"})
	require.NoError(t, err)

	token, err := svc.Issue("u1", "ann@example.com", "Ann", "creator")
	require.NoError(t, err)

	claims, err := svc.Validate("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "Ann", claims.Name)
	assert.Equal(t, "creator", claims.Role)
}

func TestJWTService_Rejections(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{SecretKey: "secret", TTL: time.Hour})
	require.NoError(t, err)
	other, err := NewJWTService(JWTConfig{SecretKey: "other"})
	require.NoError(t, err)

	_, err = svc.Validate("")
	assert.ErrorIs(t, err, ErrMissingToken)

	forged, err := other.Issue("u1", "", "", "admin")
	require.NoError(t, err)
	_, err = svc.Validate(forged)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = svc.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err := svc.Issue("u1", "", "", "consumer")
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	assert.Error(t, err)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)
	hash, err := h.Hash("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, h.Verify(hash, "hunter22"))
	assert.False(t, h.Verify(hash, "hunter23"))
	assert.False(t, h.Verify("garbage", "hunter22"))
}

func TestUserContext(t *testing.T) {
	_, err := GetUserFromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoUser)

	ctx := SetUserInContext(context.Background(), &UserContext{UserID: "u1", Role: "admin"})
	u, err := GetUserFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)
}

func TestSlidingWindowLimiter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewSlidingWindowLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "k")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "other")
	assert.True(t, ok, "keys are independent")

	now = now.Add(61 * time.Second)
	ok, _ = l.Allow(ctx, "k")
	assert.True(t, ok, "window slid past old requests")

	require.NoError(t, l.Reset(ctx, "k"))
	ok, _ = l.Allow(ctx, "k")
	assert.True(t, ok)
}

func TestSlidingWindowLimiter_ForgetsIdleKeys(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewSlidingWindowLimiter(5, time.Minute)
	l.now = func() time.Time { return now }

	for _, ip := range []string{"ip:10.0.0.1", "ip:10.0.0.2", "ip:10.0.0.3"} {
		ok, err := l.Allow(ctx, ip)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Len(t, l.windows, 3)

	now = now.Add(30 * time.Second)
	_, err := l.Allow(ctx, "ip:10.0.0.2")
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	_, err = l.Allow(ctx, "ip:10.0.0.4")
	require.NoError(t, err)

	assert.Len(t, l.windows, 2, "clients idle for a whole window are dropped")
	assert.Contains(t, l.windows, "ip:10.0.0.2")
	assert.Contains(t, l.windows, "ip:10.0.0.4")
}

func TestDistributedRateLimiter(t *testing.T) {
	ctx := context.Background()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	pool := &redis.Pool{Dial: func() (redis.Conn, error) { return redis.Dial("tcp", s.Addr()) }}
	t.Cleanup(func() { _ = pool.Close() })

	now := time.Date(2024, 1, 1, 0, 0, 10, 0, time.UTC)
	l := NewDistributedRateLimiter(pool, 2, time.Minute, "auth")
	l.now = func() time.Time { return now }

	ip := NewIPRateLimiter(l)
	for i := 0; i < 2; i++ {
		ok, err := ip.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := ip.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	key := "ratelimit:auth:ip:1.2.3.4:" + "1704067200"
	assert.True(t, s.Exists(key))
	assert.Equal(t, 2*time.Minute, s.TTL(key))

	now = now.Add(time.Minute)
	ok, _ = ip.Allow(ctx, "1.2.3.4")
	assert.True(t, ok, "next window starts fresh")

	s.Close()
	ok, err = ip.Allow(ctx, "1.2.3.4")
	assert.True(t, ok, "fails open")
	assert.Error(t, err)
}
