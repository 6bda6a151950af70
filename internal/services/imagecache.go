package services

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// 1x1 gray PNG served when an upstream image cannot be fetched.
const placeholderPNGBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNk+A8AAQUBAScY42YAAAAASUVORK5CYII="

// ImageCacheService proxies external place images through an S3-backed
// cache so clients never hit the upstream image hosts directly.
type ImageCacheService struct {
	s3Client   *s3.Client
	bucket     string
	httpClient *http.Client
}

// NewImageCacheService creates the S3 client for the cache bucket. endpoint
// overrides the AWS default for S3-compatible providers.
func NewImageCacheService(region, bucket, accessKey, secretKey, endpoint string) (*ImageCacheService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &ImageCacheService{
		s3Client:   s3Client,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// Get returns the image bytes for a URL, serving from the cache when
// possible. Upstream failures degrade to a placeholder instead of an error
// so client image grids never break.
func (s *ImageCacheService) Get(ctx context.Context, imageURL string) ([]byte, string, error) {
	key := cacheKey(imageURL)

	if body, contentType, err := s.fromCache(ctx, key); err == nil {
		return body, contentType, nil
	}

	body, contentType, err := s.fetchUpstream(ctx, imageURL)
	if err != nil {
		log.Warn().Err(err).Str("url", imageURL).Msg("Upstream image fetch failed, serving placeholder")
		placeholder, _ := base64.StdEncoding.DecodeString(placeholderPNGBase64)
		return placeholder, "image/png", nil
	}

	s.store(ctx, key, body, contentType)
	return body, contentType, nil
}

func cacheKey(imageURL string) string {
	sum := md5.Sum([]byte(imageURL))
	return "image-cache/" + hex.EncodeToString(sum[:])
}

func (s *ImageCacheService) fromCache(ctx context.Context, key string) ([]byte, string, error) {
	out, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", err
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read cached image: %w", err)
	}

	contentType := "image/jpeg"
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return body, contentType, nil
}

func (s *ImageCacheService) fetchUpstream(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("invalid image url: %w", err)
	}
	// Some image hosts reject requests without a browser-like identity.
	req.Header.Set("Referer", "http://localhost:3000")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return body, contentType, nil
}

// store writes through to the cache; a failed write is logged, not returned.
func (s *ImageCacheService) store(ctx context.Context, key string, body []byte, contentType string) {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to write image to cache")
	}
}
