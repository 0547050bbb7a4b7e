// Package blob uploads pitch decks to S3-compatible object storage.
// Files are validated client-side before any network call and stored
// under keys namespaced by the uploading user.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/dealflow/internal/config"
	"github.com/yourusername/dealflow/internal/session"
)

// Validation errors surfaced before any network call
var (
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
	ErrUnsupportedType = errors.New("unsupported file type: only PDF and PowerPoint decks are accepted")
	ErrEmptyFile       = errors.New("file is empty")
)

// deckContentTypes is the allow-list of accepted deck MIME types
var deckContentTypes = map[string]string{
	"application/pdf":               ".pdf",
	"application/vnd.ms-powerpoint": ".ppt",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": ".pptx",
}

// deckExtensions accepts files whose browser-supplied content type is
// generic but whose filename extension is recognisable.
var deckExtensions = map[string]bool{
	".pdf":  true,
	".ppt":  true,
	".pptx": true,
}

// s3PutAPI is the slice of the S3 client the uploader needs
type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader stores pitch decks in an S3 bucket
type Uploader struct {
	client s3PutAPI
	cfg    config.StorageConfig
	logger *logrus.Logger
}

// NewUploader creates an uploader backed by the default AWS credential chain
func NewUploader(ctx context.Context, cfg config.StorageConfig, logger *logrus.Logger) (*Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Uploader{
		client: s3.NewFromConfig(awsCfg),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// NewUploaderWithClient creates an uploader with an injected S3 client,
// used by tests.
func NewUploaderWithClient(client s3PutAPI, cfg config.StorageConfig, logger *logrus.Logger) *Uploader {
	return &Uploader{client: client, cfg: cfg, logger: logger}
}

// ValidateDeck rejects bad uploads before any network round trip.
// Acceptance is by content type or, failing that, filename extension.
func (u *Uploader) ValidateDeck(filename, contentType string, size int64) error {
	if size <= 0 {
		return ErrEmptyFile
	}
	if size > u.cfg.MaxUploadBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, size, u.cfg.MaxUploadBytes)
	}

	if _, ok := deckContentTypes[strings.ToLower(contentType)]; ok {
		return nil
	}
	if deckExtensions[strings.ToLower(path.Ext(filename))] {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
}

// UploadDeck validates and stores a deck, returning its public URL.
// The progress callback, when given, receives synthetic percentages on
// a fixed interval; it is a cosmetic approximation capped below
// completion until the put returns, then jumped to 100.
func (u *Uploader) UploadDeck(ctx context.Context, sess session.Session, filename, contentType string, data []byte, progress func(int)) (string, error) {
	if err := u.ValidateDeck(filename, contentType, int64(len(data))); err != nil {
		return "", err
	}

	key := u.deckKey(sess, filename)

	stop := startSyntheticProgress(progress)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	stop(err == nil)

	if err != nil {
		return "", fmt.Errorf("failed to upload deck: %w", err)
	}

	url := fmt.Sprintf("%s/%s", strings.TrimRight(u.cfg.PublicBaseURL, "/"), key)
	u.logger.WithFields(logrus.Fields{
		"key":  key,
		"size": len(data),
	}).Info("Deck uploaded")

	return url, nil
}

// deckKey namespaces keys by user so one user's decks can never
// collide with another's.
func (u *Uploader) deckKey(sess session.Session, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".pdf"
	}
	return fmt.Sprintf("%s/%s/%s%s", u.cfg.KeyPrefix, sess.UserID, uuid.New(), ext)
}

// startSyntheticProgress reports made-up percentages on a ticker until
// stopped. Capped at 90 so the bar never claims completion while the
// transfer is still in flight.
func startSyntheticProgress(progress func(int)) func(success bool) {
	if progress == nil {
		return func(bool) {}
	}

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		pct := 0
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if pct < 90 {
					pct += 10
					progress(pct)
				}
			}
		}
	}()

	return func(success bool) {
		close(done)
		<-finished
		if success {
			progress(100)
		}
	}
}
