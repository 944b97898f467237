package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yongpei/internal/config"
	"yongpei/internal/failure"
)

type putCall struct {
	key          string
	contentType  string
	cacheControl string
	body         string
}

type mockPutter struct {
	failKey string
	mu      sync.Mutex
	calls   []putCall
}

func (m *mockPutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if aws.ToString(in.Key) == m.failKey {
		return nil, errors.New("access denied")
	}

	m.calls = append(m.calls, putCall{
		key:          aws.ToString(in.Key),
		contentType:  aws.ToString(in.ContentType),
		cacheControl: aws.ToString(in.CacheControl),
		body:         string(body),
	})

	return &s3.PutObjectOutput{}, nil
}

func writeBuild(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"index.html":       "<html></html>",
		"product-1.html":   "<html>1</html>",
		"css/style.css":    "body{}",
		"js/components.js": "const Components = {};",
	}

	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	return dir
}

func TestPublish(t *testing.T) {
	dir := writeBuild(t)
	putter := &mockPutter{}

	p := NewPublisherWithClient(putter, config.PublishConfig{Bucket: "site", Prefix: "/www/"}, nil)

	result, err := p.Publish(context.Background(), dir)
	require.NoError(t, err)

	assert.Empty(t, result.Errors)
	assert.Equal(t, 4, result.Uploaded)
	assert.Equal(t, []string{"www/css/style.css", "www/index.html", "www/js/components.js", "www/product-1.html"}, result.Keys)

	sort.Slice(putter.calls, func(i, j int) bool { return putter.calls[i].key < putter.calls[j].key })

	require.Len(t, putter.calls, 4)
	assert.Equal(t, "text/css; charset=utf-8", putter.calls[0].contentType)
	assert.Empty(t, putter.calls[0].cacheControl)
	assert.Equal(t, "www/index.html", putter.calls[1].key)
	assert.Equal(t, "text/html; charset=utf-8", putter.calls[1].contentType)
	assert.Equal(t, "no-cache", putter.calls[1].cacheControl)
	assert.Equal(t, "<html></html>", putter.calls[1].body)
}

func TestPublish_CollectsFailures(t *testing.T) {
	dir := writeBuild(t)
	putter := &mockPutter{failKey: "index.html"}

	result, err := NewPublisherWithClient(putter, config.PublishConfig{Bucket: "site"}, nil).Publish(context.Background(), dir)
	require.NoError(t, err)

	assert.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Uploaded)
}

func TestPublish_DryRun(t *testing.T) {
	dir := writeBuild(t)
	putter := &mockPutter{}

	p := NewPublisherWithClient(putter, config.PublishConfig{Bucket: "site"}, nil)
	p.SetDryRun(true)

	result, err := p.Publish(context.Background(), dir)
	require.NoError(t, err)

	assert.Len(t, result.Keys, 4)
	assert.Zero(t, result.Uploaded)
	assert.Empty(t, putter.calls)
}

func TestPublish_Errors(t *testing.T) {
	_, err := NewPublisherWithClient(&mockPutter{}, config.PublishConfig{}, nil).Publish(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrMissingBucket)

	_, err = NewPublisherWithClient(&mockPutter{}, config.PublishConfig{Bucket: "b"}, nil).Publish(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, failure.ErrFilesystem)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/octet-stream", ContentType("README"))
	assert.Equal(t, "image/png", ContentType("img/logo.png"))
}
