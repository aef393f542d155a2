package infrastructure

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tourney/domain"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	log "github.com/sirupsen/logrus"
)

// allowedProofExtensions lists the image types accepted as proof
var allowedProofExtensions = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// ProofStore persists proof screenshots and returns a reference to them
type ProofStore interface {
	Save(ctx context.Context, name string, content io.Reader) (string, error)
}

// ProofExtension returns the lowercased extension of filename, or
// domain.ErrInvalidProof when it is not an accepted image type
func ProofExtension(filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := allowedProofExtensions[ext]; !ok {
		return "", domain.ErrInvalidProof
	}
	return ext, nil
}

// PaymentProofName builds payment_{user}_{timestamp}_{uuid8}_{slug}.{ext}
// for a top-up screenshot or an admin payout screenshot
func PaymentProofName(userID int64, original string, now time.Time) (string, error) {
	ext, err := ProofExtension(original)
	if err != nil {
		return "", err
	}
	base := slug.Make(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	if base == "" {
		base = "proof"
	}
	return fmt.Sprintf("payment_%d_%s_%s_%s.%s", userID, now.UTC().Format("20060102_150405"), shortUUID(), base, ext), nil
}

// KillProofName builds kills_{room}_{gamingid}_{timestamp}_{uuid8}.{ext}
func KillProofName(roomID, gamingIDID int64, original string, now time.Time) (string, error) {
	ext, err := ProofExtension(original)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("kills_%d_%d_%s_%s.%s", roomID, gamingIDID, now.UTC().Format("20060102_150405"), shortUUID(), ext), nil
}

func shortUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// LocalProofStore writes proofs under a directory on local disk
type LocalProofStore struct {
	dir string
}

// NewLocalProofStore creates the directory if needed
func NewLocalProofStore(dir string) (*LocalProofStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalProofStore{dir: dir}, nil
}

// Save writes content to dir/name and returns name as the reference
func (s *LocalProofStore) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	if name != filepath.Base(name) {
		return "", domain.ErrInvalidProof.WithMessage("Invalid proof file name")
	}

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create proof file: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write proof file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close proof file: %w", err)
	}

	log.WithField("file", name).Debug("Stored proof locally")
	return name, nil
}
