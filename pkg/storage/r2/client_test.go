package r2

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
}

func testR2Client(endpoint string) *Client {
	parsed, _ := url.Parse(endpoint)
	return &Client{
		httpClient:      &http.Client{},
		endpoint:        parsed,
		region:          "auto",
		bucket:          "campusmart-media",
		accessKeyID:     "AKIDEXAMPLE",
		secretAccessKey: "secret",
		publicBaseURL:   "https://media.campusmart.test",
		uploadExpiry:    5 * time.Minute,
		maxUploadBytes:  5 << 20,
		now:             fixedNow,
	}
}

func TestPresignPutProducesSignedURL(t *testing.T) {
	client := testR2Client("https://account.r2.cloudflarestorage.com")

	upload, err := client.PresignPut("products/abc/photo 1.jpg", "image/jpeg")
	require.NoError(t, err)

	parsed, err := url.Parse(upload.URL)
	require.NoError(t, err)
	assert.Equal(t, "account.r2.cloudflarestorage.com", parsed.Host)
	assert.Equal(t, "/campusmart-media/products/abc/photo%201.jpg", parsed.EscapedPath())

	query := parsed.Query()
	assert.Equal(t, "AWS4-HMAC-SHA256", query.Get("X-Amz-Algorithm"))
	assert.Equal(t, "AKIDEXAMPLE/20260402/auto/s3/aws4_request", query.Get("X-Amz-Credential"))
	assert.Equal(t, "20260402T120000Z", query.Get("X-Amz-Date"))
	assert.Equal(t, "300", query.Get("X-Amz-Expires"))
	assert.Equal(t, "content-type;host", query.Get("X-Amz-SignedHeaders"))
	assert.Len(t, query.Get("X-Amz-Signature"), 64)

	assert.Equal(t, http.MethodPut, upload.Method)
	assert.Equal(t, "image/jpeg", upload.Headers["Content-Type"])
	assert.Equal(t, "https://media.campusmart.test/products/abc/photo 1.jpg", upload.PublicURL)
	assert.Equal(t, fixedNow().Add(5*time.Minute), upload.ExpiresAt)
}

func TestPresignPutIsDeterministic(t *testing.T) {
	client := testR2Client("https://account.r2.cloudflarestorage.com")

	first, err := client.PresignPut("products/x.png", "image/png")
	require.NoError(t, err)
	second, err := client.PresignPut("products/x.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, first.URL, second.URL)

	other, err := client.PresignPut("products/y.png", "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, first.URL, other.URL)
}

func TestPresignPutValidatesInput(t *testing.T) {
	client := testR2Client("https://account.r2.cloudflarestorage.com")

	_, err := client.PresignPut("", "image/png")
	assert.Error(t, err)

	_, err = client.PresignPut("key.png", "")
	assert.Error(t, err)
}

func TestPingHitsBucketListing(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testR2Client(server.URL)
	require.NoError(t, client.Ping(context.Background()))

	assert.Equal(t, "/campusmart-media", gotPath)
	assert.Contains(t, gotQuery, "max-keys=0")
	assert.Contains(t, gotQuery, "X-Amz-Signature=")
}

func TestPingReportsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("SignatureDoesNotMatch"))
	}))
	defer server.Close()

	client := testR2Client(server.URL)
	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "SignatureDoesNotMatch"))
}
