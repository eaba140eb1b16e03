package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubPresign(t *testing.T, url string, gotKey *string, gotBucket *string) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		require.NotNil(t, opts.BaseEndpoint)
		assert.Equal(t, "http://minio:9000", *opts.BaseEndpoint)
		assert.True(t, opts.UsePathStyle)
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		*gotKey = aws.ToString(in.Key)
		*gotBucket = aws.ToString(in.Bucket)
		return &v4.PresignedHTTPRequest{URL: url, Method: http.MethodPut}, nil
	}
}

func testConfig() Config {
	return Config{
		Region:        "us-east-1",
		User:          "minioadmin",
		Password:      "minioadmin",
		BaseEndpoint:  "http://minio:9000",
		Bucket:        "images",
		PublicBaseURL: "https://cdn.example/images/",
	}
}

func TestPut_UploadsAndReturnsPublicURL(t *testing.T) {
	var body []byte
	var ctype string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		ctype = r.Header.Get("Content-Type")
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var key, bucket string
	stubPresign(t, srv.URL+"/upload", &key, &bucket)

	st := NewS3Store(testConfig(), srv.Client())
	url, err := st.Put(context.Background(), "profile_pictures/7_profile.png", []byte("png"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example/images/profile_pictures/7_profile.png", url)
	assert.Equal(t, "profile_pictures/7_profile.png", key)
	assert.Equal(t, "images", bucket)
	assert.Equal(t, "image/png", ctype)
	assert.Equal(t, []byte("png"), body)
}

func TestPut_UploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	var key, bucket string
	stubPresign(t, srv.URL, &key, &bucket)

	st := NewS3Store(testConfig(), srv.Client())
	url, err := st.Put(context.Background(), "k", []byte("x"), "image/jpeg")
	require.Error(t, err)
	assert.Empty(t, url)
	assert.Contains(t, err.Error(), "403")
}

func TestPut_PresignError(t *testing.T) {
	var key, bucket string
	stubPresign(t, "", &key, &bucket)
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("sign failed")
	}

	st := NewS3Store(testConfig(), nil)
	_, err := st.Put(context.Background(), "k", nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "presign: sign failed")
}

func TestPut_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no creds")
	}

	st := NewS3Store(testConfig(), nil)
	_, err := st.Put(context.Background(), "k", nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage config: no creds")
}

func TestPublicURL_FallsBackToEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.PublicBaseURL = ""
	st := NewS3Store(cfg, nil)
	assert.Equal(t, "http://minio:9000/images/posts/1/a.jpg", st.PublicURL("/posts/1/a.jpg"))
}
