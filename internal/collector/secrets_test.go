package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretsClient struct {
	calls int
	value string
	err   error
}

func (f *fakeSecretsClient) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(f.value)}, nil
}

func newTestCache(client secretsAPI, ttl time.Duration) *SecretCache {
	return &SecretCache{client: client, ttl: ttl, items: make(map[string]cachedSecret)}
}

func TestSecretCacheHit(t *testing.T) {
	fake := &fakeSecretsClient{value: "token-abc"}
	sc := newTestCache(fake, time.Minute)

	for i := 0; i < 3; i++ {
		got, err := sc.Get(context.Background(), "discord/bot-token")
		require.NoError(t, err)
		assert.Equal(t, "token-abc", got)
	}
	assert.Equal(t, 1, fake.calls, "repeated gets within TTL should hit the cache")
}

func TestSecretCacheExpiry(t *testing.T) {
	fake := &fakeSecretsClient{value: "token-abc"}
	sc := newTestCache(fake, time.Nanosecond)

	_, err := sc.Get(context.Background(), "discord/bot-token")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = sc.Get(context.Background(), "discord/bot-token")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.calls, "expired entries should be refetched")
}

func TestSecretCacheServesStaleOnError(t *testing.T) {
	fake := &fakeSecretsClient{value: "token-abc"}
	sc := newTestCache(fake, time.Nanosecond)

	got, err := sc.Get(context.Background(), "discord/bot-token")
	require.NoError(t, err)
	assert.Equal(t, "token-abc", got)

	fake.err = errors.New("throttled")
	time.Sleep(time.Millisecond)
	got, err = sc.Get(context.Background(), "discord/bot-token")
	require.NoError(t, err)
	assert.Equal(t, "token-abc", got, "fetch failure should fall back to the stale value")
}

func TestSecretCacheErrorWithoutFallback(t *testing.T) {
	fake := &fakeSecretsClient{err: errors.New("access denied")}
	sc := newTestCache(fake, time.Minute)

	_, err := sc.Get(context.Background(), "discord/bot-token")
	assert.Error(t, err)
}
