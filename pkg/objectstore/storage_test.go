package objectstore

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

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	return &s3.PutObjectOutput{}, f.err
}

func TestPutJSON(t *testing.T) {
	api := &fakeS3{}
	client := NewStorageClientWithAPI(api, "salvex-exports")

	err := client.PutJSON(context.Background(), "project-inquiries/x.json", []byte(`[]`))
	require.NoError(t, err)

	require.NotNil(t, api.input)
	assert.Equal(t, "salvex-exports", aws.ToString(api.input.Bucket))
	assert.Equal(t, "project-inquiries/x.json", aws.ToString(api.input.Key))
	assert.Equal(t, "application/json", aws.ToString(api.input.ContentType))
	assert.Equal(t, []byte(`[]`), api.body)
}

func TestPutJSON_Error(t *testing.T) {
	api := &fakeS3{err: errors.New("access denied")}
	client := NewStorageClientWithAPI(api, "bucket")

	err := client.PutJSON(context.Background(), "k.json", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Contains(t, err.Error(), "k.json")
}

func TestNewStorageClient(t *testing.T) {
	client := NewStorageClient(Config{
		AccessKeyID:     "id",
		SecretAccessKey: "secret",
		BucketName:      "bucket",
		Endpoint:        "http://localhost:9000",
	})
	assert.Equal(t, "bucket", client.Bucket())
	assert.NotNil(t, client.api)
}
