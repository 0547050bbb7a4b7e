package blob

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/dealflow/internal/config"
	"github.com/yourusername/dealflow/internal/session"
)

type fakeS3 struct {
	calls   int
	lastKey string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls++
	f.lastKey = *params.Key
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func testUploader(client s3PutAPI) *Uploader {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewUploaderWithClient(client, config.StorageConfig{
		Bucket:         "dealflow-decks",
		Region:         "eu-west-2",
		KeyPrefix:      "decks",
		PublicBaseURL:  "https://cdn.example.com/",
		MaxUploadBytes: 10 * 1024 * 1024,
	}, log)
}

func TestValidateDeck(t *testing.T) {
	u := testUploader(&fakeS3{})

	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int64
		wantErr     error
	}{
		{name: "pdf by content type", filename: "deck.bin", contentType: "application/pdf", size: 1024},
		{name: "pptx by extension", filename: "deck.pptx", contentType: "application/octet-stream", size: 1024},
		{name: "uppercase extension", filename: "DECK.PDF", contentType: "", size: 1024},
		{name: "too large", filename: "deck.pdf", contentType: "application/pdf", size: 11 * 1024 * 1024, wantErr: ErrFileTooLarge},
		{name: "empty", filename: "deck.pdf", contentType: "application/pdf", size: 0, wantErr: ErrEmptyFile},
		{name: "wrong type", filename: "deck.exe", contentType: "application/x-msdownload", size: 1024, wantErr: ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := u.ValidateDeck(tt.filename, tt.contentType, tt.size)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUploadDeckRejectsBeforeNetworkCall(t *testing.T) {
	fake := &fakeS3{}
	u := testUploader(fake)

	_, err := u.UploadDeck(context.Background(), session.Session{UserID: uuid.New()},
		"malware.exe", "application/x-msdownload", []byte("x"), nil)

	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Equal(t, 0, fake.calls, "validation failures must not reach the store")
}

func TestUploadDeckKeyAndURL(t *testing.T) {
	fake := &fakeS3{}
	u := testUploader(fake)
	userID := uuid.New()

	url, err := u.UploadDeck(context.Background(), session.Session{UserID: userID},
		"deck.pdf", "application/pdf", []byte("%PDF-1.4"), nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(fake.lastKey, "decks/"+userID.String()+"/"),
		"key must be namespaced by user")
	assert.True(t, strings.HasSuffix(fake.lastKey, ".pdf"))
	assert.Equal(t, "https://cdn.example.com/"+fake.lastKey, url)
}

func TestUploadDeckFailurePropagates(t *testing.T) {
	fake := &fakeS3{err: errors.New("access denied")}
	u := testUploader(fake)

	_, err := u.UploadDeck(context.Background(), session.Session{UserID: uuid.New()},
		"deck.pdf", "application/pdf", []byte("%PDF-1.4"), nil)

	assert.ErrorContains(t, err, "access denied")
}

func TestSyntheticProgressCompletesOnSuccess(t *testing.T) {
	fake := &fakeS3{}
	u := testUploader(fake)

	var reported []int
	_, err := u.UploadDeck(context.Background(), session.Session{UserID: uuid.New()},
		"deck.pdf", "application/pdf", []byte("%PDF-1.4"), func(pct int) {
			reported = append(reported, pct)
		})
	require.NoError(t, err)

	require.NotEmpty(t, reported)
	assert.Equal(t, 100, reported[len(reported)-1], "progress jumps to 100 when the call returns")
	for _, pct := range reported[:len(reported)-1] {
		assert.LessOrEqual(t, pct, 90, "synthetic progress stays capped until completion")
	}
}
