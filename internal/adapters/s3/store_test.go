package s3

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type putCall struct {
	bucket       string
	key          string
	contentType  string
	cacheControl string
	body         string
}

type fakeS3 struct {
	calls []putCall
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.calls = append(f.calls, putCall{
		bucket:       aws.ToString(params.Bucket),
		key:          aws.ToString(params.Key),
		contentType:  aws.ToString(params.ContentType),
		cacheControl: aws.ToString(params.CacheControl),
		body:         string(body),
	})
	return &s3.PutObjectOutput{}, nil
}

func TestStorePut(t *testing.T) {
	tests := []struct {
		name        string
		opts        []Option
		key         string
		expectedKey string
		location    string
	}{
		{"no prefix", nil, "aberto/post/index.html", "aberto/post/index.html", "s3://site"},
		{"prefix", []Option{WithPrefix("/preview/")}, "aberto/post/index.html", "preview/aberto/post/index.html", "s3://site/preview"},
		{"leading slash", nil, "/404.html", "404.html", "s3://site"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeS3{}
			store := NewStore(client, "site", tt.opts...)

			err := store.Put(context.Background(), tt.key, []byte("<html>"), "text/html; charset=utf-8")
			require.NoError(t, err)

			require.Len(t, client.calls, 1)
			call := client.calls[0]
			assert.Equal(t, "site", call.bucket)
			assert.Equal(t, tt.expectedKey, call.key)
			assert.Equal(t, "text/html; charset=utf-8", call.contentType)
			assert.Equal(t, "<html>", call.body)
			assert.Empty(t, call.cacheControl)
			assert.Equal(t, tt.location, store.Location())
		})
	}
}

func TestStoreCacheControl(t *testing.T) {
	client := &fakeS3{}
	store := NewStore(client, "site", WithCacheControl("s-maxage=1800, stale-while-revalidate"))

	require.NoError(t, store.Put(context.Background(), "404.html", []byte("x"), "text/html"))
	assert.Equal(t, "s-maxage=1800, stale-while-revalidate", client.calls[0].cacheControl)
}

func TestStorePutError(t *testing.T) {
	uploadErr := errors.New("access denied")
	store := NewStore(&fakeS3{err: uploadErr}, "site")

	err := store.Put(context.Background(), "404.html", []byte("x"), "text/html")
	assert.ErrorIs(t, err, uploadErr)
	assert.Contains(t, err.Error(), "404.html")
}

func TestNewStoreFromEnvRequiresBucket(t *testing.T) {
	_, err := NewStoreFromEnv(context.Background(), "")
	assert.Error(t, err)
}
