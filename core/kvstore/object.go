package kvstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"inventory-manager/core/storage"

	"github.com/minio/minio-go/v7"
)

const objectExt = ".json"

// Object is a Store keeping one JSON object per key in a bucket.
type Object struct {
	client storage.Client
	bucket string
	prefix string
}

// NewObject returns a store writing under prefix in bucket.
func NewObject(client storage.Client, bucket, prefix string) *Object {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Object{client: client, bucket: bucket, prefix: prefix}
}

func (o *Object) objectName(key string) string {
	return o.prefix + key + objectExt
}

func (o *Object) keyFromObject(name string) (string, bool) {
	if !strings.HasPrefix(name, o.prefix) || !strings.HasSuffix(name, objectExt) {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(name, o.prefix), objectExt), true
}

func (o *Object) Get(ctx context.Context, key string) ([]byte, error) {
	reader, err := o.client.GetObject(ctx, o.bucket, o.objectName(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, o.translate(key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, o.translate(key, err)
	}
	return data, nil
}

func (o *Object) Set(ctx context.Context, key string, value []byte) error {
	_, err := o.client.PutObject(ctx, o.bucket, o.objectName(key), bytes.NewReader(value), int64(len(value)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func (o *Object) GetAll(ctx context.Context) (map[string][]byte, error) {
	out := make(map[string][]byte)
	opts := minio.ListObjectsOptions{Prefix: o.prefix, Recursive: true}
	for obj := range o.client.ListObjects(ctx, o.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", o.prefix, obj.Err)
		}
		key, ok := o.keyFromObject(obj.Key)
		if !ok {
			continue
		}
		data, err := o.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		out[key] = data
	}
	return out, nil
}

func (o *Object) SetAll(ctx context.Context, values map[string][]byte) error {
	for k, v := range values {
		if err := o.Set(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}

func (o *Object) Delete(ctx context.Context, key string) error {
	if err := o.client.RemoveObject(ctx, o.bucket, o.objectName(key), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (o *Object) translate(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrNotFound
	}
	return fmt.Errorf("failed to get %s: %w", key, err)
}
