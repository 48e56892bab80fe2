package secrets

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSM is an in-memory SecretsManagerAPI. ListSecrets returns one name per page.
type fakeSM struct {
	values map[string]string
	names  []string
	err    error
}

func (f *fakeSM) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.values[aws.ToString(in.SecretId)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("not found")}
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(v)}, nil
}

func (f *fakeSM) ListSecrets(_ context.Context, in *secretsmanager.ListSecretsInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error) {
	idx := 0
	if in.NextToken != nil {
		for i, n := range f.names {
			if n == *in.NextToken {
				idx = i
			}
		}
	}
	out := &secretsmanager.ListSecretsOutput{}
	if idx < len(f.names) {
		out.SecretList = []types.SecretListEntry{{Name: aws.String(f.names[idx])}}
	}
	if idx+1 < len(f.names) {
		out.NextToken = aws.String(f.names[idx+1])
	}
	return out, nil
}

// ─── AWS provider ─────────────────────────────────────────────────────────────

func TestAWSProvider_GetSecret(t *testing.T) {
	p := NewAWSProviderFromClient(&fakeSM{values: map[string]string{
		"dev/vtn-a/oadr3": `{"base_url":"https://vtn.example.com","client_id":"ven-1","client_secret":"s"}`,
		"dev/broken":      `not json`,
	}})

	m, err := p.GetSecret(context.Background(), "dev/vtn-a/oadr3")
	require.NoError(t, err)
	assert.Equal(t, "ven-1", m["client_id"])

	_, err = p.GetSecret(context.Background(), "dev/broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid secret format")

	_, err = p.GetSecret(context.Background(), "dev/missing")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "dev/missing", nf.Name)
}

func TestAWSProvider_GetSecretError(t *testing.T) {
	p := NewAWSProviderFromClient(&fakeSM{err: errors.New("throttled")})
	_, err := p.GetSecret(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestAWSProvider_ListSecretsPaginates(t *testing.T) {
	p := NewAWSProviderFromClient(&fakeSM{names: []string{"dev/a/oadr3", "dev/b/oadr3", "dev/c/oadr3"}})
	names, err := p.ListSecrets(context.Background(), "dev/")
	require.NoError(t, err)
	assert.Equal(t, []string{"dev/a/oadr3", "dev/b/oadr3", "dev/c/oadr3"}, names)
}

// ─── Static provider ──────────────────────────────────────────────────────────

func TestStaticProvider(t *testing.T) {
	p := StaticProvider{
		"dev/a/oadr3":  {"client_id": "a"},
		"dev/b/oadr3":  {"client_id": "b"},
		"prod/c/oadr3": {"client_id": "c"},
	}
	m, err := p.GetSecret(context.Background(), "dev/a/oadr3")
	require.NoError(t, err)
	m["client_id"] = "mutated"
	again, _ := p.GetSecret(context.Background(), "dev/a/oadr3")
	assert.Equal(t, "a", again["client_id"], "returned maps are copies")

	names, err := p.ListSecrets(context.Background(), "dev/")
	require.NoError(t, err)
	sort.Strings(names)
	assert.Equal(t, []string{"dev/a/oadr3", "dev/b/oadr3"}, names)

	_, err = p.GetSecret(context.Background(), "nope")
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

// ─── Cache ────────────────────────────────────────────────────────────────────

func TestCache_ExpiresAfterTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache[string](time.Minute)
	c.now = func() time.Time { return now }

	c.Put("k", "v")
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	now = now.Add(time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Bust(t *testing.T) {
	c := NewCache[int](time.Hour)
	c.Put("k", 1)
	c.Bust("k")
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCache_CleanerRemovesExpired(t *testing.T) {
	var mu sync.Mutex
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache[int](time.Second)
	c.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	c.Put("a", 1)
	c.Put("b", 2)

	mu.Lock()
	now = now.Add(2 * time.Second)
	mu.Unlock()

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		c.StartCleaner(5*time.Millisecond, stop)
		close(done)
	}()

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	close(stop)
	<-done
}
