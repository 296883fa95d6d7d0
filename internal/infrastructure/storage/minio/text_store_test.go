package minio

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
)

// fakeObjectAPI is an in-memory ObjectAPI implementation.
type fakeObjectAPI struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{
		buckets: make(map[string]bool),
		objects: make(map[string][]byte),
	}
}

func (f *fakeObjectAPI) BucketExists(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buckets[name], nil
}

func (f *fakeObjectAPI) MakeBucket(_ context.Context, name string, _ miniogo.MakeBucketOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buckets[name] = true
	return nil
}

func (f *fakeObjectAPI) PutObject(_ context.Context, bucket, name string, reader io.Reader, _ int64, _ miniogo.PutObjectOptions) (miniogo.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return miniogo.UploadInfo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[bucket+"/"+name] = data
	return miniogo.UploadInfo{Bucket: bucket, Key: name, Size: int64(len(data))}, nil
}

// errReadCloser fails on first read with a NoSuchKey response, matching how
// the SDK surfaces missing objects lazily.
type errReadCloser struct{ err error }

func (r errReadCloser) Read([]byte) (int, error) { return 0, r.err }
func (r errReadCloser) Close() error             { return nil }

func (f *fakeObjectAPI) GetObject(_ context.Context, bucket, name string, _ miniogo.GetObjectOptions) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[bucket+"/"+name]
	if !ok {
		return errReadCloser{err: miniogo.ErrorResponse{Code: "NoSuchKey"}}, nil
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeObjectAPI) StatObject(_ context.Context, bucket, name string, _ miniogo.StatObjectOptions) (miniogo.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[bucket+"/"+name]
	if !ok {
		return miniogo.ObjectInfo{}, miniogo.ErrorResponse{Code: "NoSuchKey"}
	}
	return miniogo.ObjectInfo{Key: name, Size: int64(len(data))}, nil
}

func (f *fakeObjectAPI) RemoveObject(_ context.Context, bucket, name string, _ miniogo.RemoveObjectOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, bucket+"/"+name)
	return nil
}

func newTestStore(t *testing.T) (TextStore, *fakeObjectAPI) {
	t.Helper()
	api := newFakeObjectAPI()
	client := NewClientWithAPI(api, "doclens-documents", logging.NewNopLogger())
	return NewTextStore(client, logging.NewNopLogger()), api
}

func TestTextStore_PutAndGet(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	key, err := store.Put(ctx, "abc123", "Dear Sir, please find attached the requested documents.")
	require.NoError(t, err)
	assert.Equal(t, "documents/abc123.txt", key)

	text, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "Dear Sir, please find attached the requested documents.", text)
}

func TestTextStore_GetMissing(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "documents/nope.txt")
	assert.Equal(t, ErrObjectNotFound, err)
}

func TestTextStore_Exists(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	ok, err := store.Exists(ctx, "documents/abc.txt")
	require.NoError(t, err)
	assert.False(t, ok)

	key, err := store.Put(ctx, "abc", "some text")
	require.NoError(t, err)

	ok, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTextStore_Delete(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	key, err := store.Put(ctx, "abc", "some text")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, key))

	ok, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnsureBucket_CreatesOnce(t *testing.T) {
	t.Parallel()

	api := newFakeObjectAPI()
	client := NewClientWithAPI(api, "doclens-documents", logging.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, client.EnsureBucket(ctx))
	assert.True(t, api.buckets["doclens-documents"])
	require.NoError(t, client.EnsureBucket(ctx))
}

func TestObjectKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "documents/deadbeef.txt", ObjectKey("deadbeef"))
}
