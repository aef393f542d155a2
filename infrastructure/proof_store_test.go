package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"tourney/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProofExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		want     string
		wantErr  bool
	}{
		{filename: "shot.PNG", want: "png"},
		{filename: "a.b.jpeg", want: "jpeg"},
		{filename: "payout.gif", want: "gif"},
		{filename: "doc.pdf", wantErr: true},
		{filename: "noext", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()
			got, err := ProofExtension(tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidProof)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProofNames(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	name, err := PaymentProofName(42, "My UPI Receipt.JPG", now)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^payment_42_20240309_140507_[0-9a-f]{8}_my-upi-receipt\.jpg$`), name)

	name, err = KillProofName(3, 17, "scoreboard.png", now)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^kills_3_17_20240309_140507_[0-9a-f]{8}\.png$`), name)

	_, err = KillProofName(3, 17, "scoreboard.exe", now)
	assert.ErrorIs(t, err, domain.ErrInvalidProof)
}

func TestLocalProofStore_Save(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalProofStore(dir)
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), "kills_1_2_x.png", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "kills_1_2_x.png", ref)

	content, err := os.ReadFile(filepath.Join(dir, ref))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(content))

	_, err = store.Save(context.Background(), "../escape.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidProof)
}
