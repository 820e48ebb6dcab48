package s3

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHeadObject struct {
	calls  []s3.HeadObjectInput
	output *s3.HeadObjectOutput
	err    error
}

func (f *fakeHeadObject) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.calls = append(f.calls, *params)
	return f.output, f.err
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		location string
		bucket   string
		key      string
		ok       bool
	}{
		{location: "s3://media/videos/a.mp4", bucket: "media", key: "videos/a.mp4", ok: true},
		{location: "s3://media/a", bucket: "media", key: "a", ok: true},
		{location: "s3://media", ok: false},
		{location: "s3://media/", ok: false},
		{location: "s3:///key", ok: false},
		{location: "https://media.s3.amazonaws.com/a.mp4", ok: false},
		{location: "/uploads/a.pdf", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			bucket, key, ok := ParseLocation(tt.location)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestProber_HeadObject(t *testing.T) {
	client := &fakeHeadObject{output: &s3.HeadObjectOutput{ContentLength: aws.Int64(4096)}}
	p := NewWithClient(client)

	size, ok := p.Probe(context.Background(), "s3://media/docs/a.pdf")
	assert.True(t, ok)
	assert.Equal(t, int64(4096), size)

	require.Len(t, client.calls, 1)
	assert.Equal(t, "media", aws.ToString(client.calls[0].Bucket))
	assert.Equal(t, "docs/a.pdf", aws.ToString(client.calls[0].Key))
}

func TestProber_Failures(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeHeadObject
	}{
		{name: "not found", client: &fakeHeadObject{err: &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}}},
		{name: "network", client: &fakeHeadObject{err: errors.New("dial tcp: connection refused")}},
		{name: "no length", client: &fakeHeadObject{output: &s3.HeadObjectOutput{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, ok := NewWithClient(tt.client).Probe(context.Background(), "s3://media/a.pdf")
			assert.False(t, ok)
			assert.Zero(t, size)
		})
	}
}

func TestProber_SkipsNonS3Locations(t *testing.T) {
	client := &fakeHeadObject{}
	size, ok := NewWithClient(client).Probe(context.Background(), "/uploads/a.pdf")
	assert.False(t, ok)
	assert.Zero(t, size)
	assert.Empty(t, client.calls)
}
