package kvstore_test

import (
	"context"
	"errors"
	"testing"

	"inventory-manager/core/kvstore"
	"inventory-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestObject_SetAndGet(t *testing.T) {
	ctx := context.Background()
	client := mocks.NewClient(t)
	s := kvstore.NewObject(client, "assets", "state")

	client.On("PutObject", mock.Anything, "assets", "state/inventory/chest_1.json", mock.Anything, int64(11),
		minio.PutObjectOptions{ContentType: "application/json"}).
		Return(minio.UploadInfo{}, nil)
	client.On("GetObject", mock.Anything, "assets", "state/inventory/chest_1.json", mock.Anything).
		Return(mocks.Body(`{"size":27}`), nil)

	require.NoError(t, s.Set(ctx, "inventory/chest_1", []byte(`{"size":27}`)))

	v, err := s.Get(ctx, "inventory/chest_1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"size":27}`, string(v))
}

func TestObject_GetMissing(t *testing.T) {
	ctx := context.Background()
	client := mocks.NewClient(t)
	s := kvstore.NewObject(client, "assets", "state/")

	client.On("GetObject", mock.Anything, "assets", "state/nope.json", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestObject_GetAll(t *testing.T) {
	ctx := context.Background()
	client := mocks.NewClient(t)
	s := kvstore.NewObject(client, "assets", "state")

	client.On("ListObjects", mock.Anything, "assets", mock.Anything).
		Return(mocks.Listing("state/a.json", "state/readme.txt", "state/inventory/b.json"))
	client.On("GetObject", mock.Anything, "assets", "state/a.json", mock.Anything).
		Return(mocks.Body(`1`), nil)
	client.On("GetObject", mock.Anything, "assets", "state/inventory/b.json", mock.Anything).
		Return(mocks.Body(`2`), nil)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a": []byte(`1`), "inventory/b": []byte(`2`)}, all)
}

func TestObject_SetAllStopsOnError(t *testing.T) {
	ctx := context.Background()
	client := mocks.NewClient(t)
	s := kvstore.NewObject(client, "assets", "state")

	client.On("PutObject", mock.Anything, "assets", "state/a.json", mock.Anything, int64(1), mock.Anything).
		Return(minio.UploadInfo{}, errors.New("disk full"))

	err := s.SetAll(ctx, map[string][]byte{"a": []byte(`1`)})
	assert.ErrorContains(t, err, "disk full")
}

func TestObject_Delete(t *testing.T) {
	ctx := context.Background()
	client := mocks.NewClient(t)
	s := kvstore.NewObject(client, "assets", "state")

	client.On("RemoveObject", mock.Anything, "assets", "state/a.json", mock.Anything).Return(nil)
	assert.NoError(t, s.Delete(ctx, "a"))
}
