package server

import (
	"errors"
	"net/http"
	"strings"

	"tourney/domain"
)

// proofNamer builds the stored name for an uploaded file
type proofNamer func(original string) (string, error)

// isMultipart reports whether the request carries a multipart form
func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// parseUpload parses a bounded multipart body
func parseUpload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return domain.ErrInvalidInput.WithMessage("Upload must be a multipart form under 10MB")
	}
	return nil
}

// saveProof stores the file in field and returns its reference. It returns
// "" without error when the field is absent and optional is set.
func (s *Server) saveProof(r *http.Request, field string, optional bool, name proofNamer) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) && optional {
			return "", nil
		}
		return "", domain.ErrInvalidProof.WithMessage("A proof screenshot is required")
	}
	defer file.Close()

	stored, err := name(header.Filename)
	if err != nil {
		return "", err
	}
	ref, err := s.proofs.Save(r.Context(), stored, file)
	if err != nil {
		return "", domain.ErrStorageUnavailable.Wrap(err)
	}
	return ref, nil
}
