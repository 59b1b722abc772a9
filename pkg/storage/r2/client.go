package r2

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/campusmart/campusmart-backend/pkg/config"
	"github.com/campusmart/campusmart-backend/pkg/logger"
)

const (
	signingAlgorithm = "AWS4-HMAC-SHA256"
	serviceName      = "s3"
	unsignedPayload  = "UNSIGNED-PAYLOAD"
	pingTimeout      = 5 * time.Second
)

// Client signs requests against a Cloudflare R2 bucket using the S3 V4 scheme.
type Client struct {
	httpClient      *http.Client
	endpoint        *url.URL
	region          string
	bucket          string
	accessKeyID     string
	secretAccessKey string
	publicBaseURL   string
	uploadExpiry    time.Duration
	maxUploadBytes  int64
	now             func() time.Time
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PresignedUpload describes a time-boxed direct upload a browser can perform.
type PresignedUpload struct {
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	PublicURL string            `json:"publicUrl"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// NewClient validates the storage configuration and verifies bucket access.
func NewClient(ctx context.Context, cfg config.StorageConfig, logg *logger.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("storage endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("storage credentials are required")
	}

	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing storage endpoint: %w", err)
	}
	if endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, fmt.Errorf("storage endpoint %q must be an absolute url", cfg.Endpoint)
	}

	client := &Client{
		httpClient:      &http.Client{Timeout: 10 * time.Second},
		endpoint:        endpoint,
		region:          cfg.Region,
		bucket:          cfg.Bucket,
		accessKeyID:     cfg.AccessKeyID,
		secretAccessKey: cfg.SecretAccessKey,
		publicBaseURL:   strings.TrimRight(cfg.PublicBaseURL, "/"),
		uploadExpiry:    cfg.UploadURLExpiry,
		maxUploadBytes:  cfg.MaxUploadBytes,
		now:             time.Now,
	}

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("storage health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "r2 client initialized")
	}
	return client, nil
}

// MaxUploadBytes reports the per-object upload ceiling.
func (c *Client) MaxUploadBytes() int64 {
	if c == nil {
		return 0
	}
	return c.maxUploadBytes
}

// PublicURL returns the CDN-facing URL for a stored object.
func (c *Client) PublicURL(objectKey string) string {
	if c == nil || c.publicBaseURL == "" {
		return ""
	}
	return c.publicBaseURL + "/" + strings.TrimLeft(objectKey, "/")
}

// PresignPut returns a signed PUT URL the client uploads directly against.
// The content type is part of the signature so the uploader cannot change it.
func (c *Client) PresignPut(objectKey, contentType string) (*PresignedUpload, error) {
	if c == nil {
		return nil, errors.New("r2 client not initialized")
	}
	if strings.TrimSpace(objectKey) == "" {
		return nil, errors.New("object key is required")
	}
	if contentType == "" {
		return nil, errors.New("content type is required")
	}

	signedURL, expiresAt, err := c.presign(http.MethodPut, objectKey, nil, contentType, c.uploadExpiry)
	if err != nil {
		return nil, err
	}
	return &PresignedUpload{
		URL:       signedURL,
		Method:    http.MethodPut,
		Headers:   map[string]string{"Content-Type": contentType},
		PublicURL: c.PublicURL(objectKey),
		ExpiresAt: expiresAt,
	}, nil
}

// Ping performs a signed zero-key listing to confirm credentials and bucket.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.httpClient == nil {
		return errors.New("r2 client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	listQuery := url.Values{"max-keys": []string{"0"}}
	signedURL, _, err := c.presign(http.MethodGet, "", listQuery, "", time.Minute)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, signedURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if len(b) > 0 {
			return fmt.Errorf("r2 bucket check failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
		}
		return fmt.Errorf("r2 bucket check failed: %s", resp.Status)
	}
	return nil
}

func (c *Client) presign(method, objectKey string, extraQuery url.Values, contentType string, expiry time.Duration) (string, time.Time, error) {
	if expiry <= 0 {
		expiry = 5 * time.Minute
	}

	now := c.now().UTC()
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")
	scope := strings.Join([]string{dateStamp, c.region, serviceName, "aws4_request"}, "/")

	canonicalURI := "/" + escapePath(c.bucket)
	if objectKey != "" {
		canonicalURI += "/" + escapePath(objectKey)
	}

	signedHeaders := []string{"host"}
	canonicalHeaders := "host:" + c.endpoint.Host + "\n"
	if contentType != "" {
		signedHeaders = []string{"content-type", "host"}
		canonicalHeaders = "content-type:" + contentType + "\nhost:" + c.endpoint.Host + "\n"
	}

	query := url.Values{}
	for key, values := range extraQuery {
		query[key] = values
	}
	query.Set("X-Amz-Algorithm", signingAlgorithm)
	query.Set("X-Amz-Credential", c.accessKeyID+"/"+scope)
	query.Set("X-Amz-Date", amzDate)
	query.Set("X-Amz-Expires", strconv.FormatInt(int64(expiry.Seconds()), 10))
	query.Set("X-Amz-SignedHeaders", strings.Join(signedHeaders, ";"))

	canonicalQuery := canonicalQueryString(query)
	canonicalRequest := strings.Join([]string{
		method,
		canonicalURI,
		canonicalQuery,
		canonicalHeaders,
		strings.Join(signedHeaders, ";"),
		unsignedPayload,
	}, "\n")

	hashedRequest := sha256.Sum256([]byte(canonicalRequest))
	stringToSign := strings.Join([]string{
		signingAlgorithm,
		amzDate,
		scope,
		hex.EncodeToString(hashedRequest[:]),
	}, "\n")

	signingKey := deriveSigningKey(c.secretAccessKey, dateStamp, c.region)
	signature := hex.EncodeToString(hmacSHA256(signingKey, stringToSign))

	// canonicalURI is pre-escaped, so assemble the URL by hand.
	signed := c.endpoint.Scheme + "://" + c.endpoint.Host + canonicalURI +
		"?" + canonicalQuery + "&X-Amz-Signature=" + signature
	return signed, now.Add(expiry), nil
}

func deriveSigningKey(secret, dateStamp, region string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secret), dateStamp)
	kRegion := hmacSHA256(kDate, region)
	kService := hmacSHA256(kRegion, serviceName)
	return hmacSHA256(kService, "aws4_request")
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}

// canonicalQueryString encodes query params with AWS escaping in sorted order.
func canonicalQueryString(query url.Values) string {
	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		values := append([]string(nil), query[key]...)
		sort.Strings(values)
		for _, value := range values {
			parts = append(parts, awsEscape(key)+"="+awsEscape(value))
		}
	}
	return strings.Join(parts, "&")
}

// escapePath escapes each path segment, keeping the separators.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = awsEscape(segment)
	}
	return strings.Join(segments, "/")
}

func awsEscape(value string) string {
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch {
		case ch >= 'A' && ch <= 'Z', ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			b.WriteByte(ch)
		case ch == '-' || ch == '_' || ch == '.' || ch == '~':
			b.WriteByte(ch)
		default:
			fmt.Fprintf(&b, "%%%02X", ch)
		}
	}
	return b.String()
}
