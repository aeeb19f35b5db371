package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type secretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretCache wraps Secrets Manager with an in-process TTL cache. The
// collector runs on a schedule, so most runs hit the cache instead of
// the AWS API.
type SecretCache struct {
	client secretsAPI
	ttl    time.Duration

	mu    sync.Mutex
	items map[string]cachedSecret
}

type cachedSecret struct {
	value     string
	fetchedAt time.Time
}

func NewSecretCache(ctx context.Context, ttl time.Duration) (*SecretCache, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &SecretCache{
		client: secretsmanager.NewFromConfig(cfg),
		ttl:    ttl,
		items:  make(map[string]cachedSecret),
	}, nil
}

func (sc *SecretCache) Get(ctx context.Context, secretID string) (string, error) {
	sc.mu.Lock()
	item, ok := sc.items[secretID]
	sc.mu.Unlock()
	if ok && time.Since(item.fetchedAt) < sc.ttl {
		return item.value, nil
	}

	out, err := sc.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		// serve stale on fetch failure if we have anything at all
		if ok {
			return item.value, nil
		}
		return "", fmt.Errorf("fetching secret %s: %w", secretID, err)
	}
	value := aws.ToString(out.SecretString)

	sc.mu.Lock()
	sc.items[secretID] = cachedSecret{value: value, fetchedAt: time.Now()}
	sc.mu.Unlock()
	return value, nil
}
