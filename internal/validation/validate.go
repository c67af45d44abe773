package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/skyden/go-skynet/errors"
	"github.com/skyden/go-skynet/skytypes"
)

// ValidateUploadSettings checks a merged settings value before any network
// activity. Violations fail with ErrInvalidInput.
func ValidateUploadSettings(s *skytypes.UploadSettings) error {
	if s.LargeFileSize < 1 {
		return invalid(fmt.Sprintf("large file size must be positive, got %d", s.LargeFileSize))
	}
	if s.BaseChunkSize < 1 {
		return invalid(fmt.Sprintf("base chunk size must be positive, got %d", s.BaseChunkSize))
	}
	if s.ChunkSizeMultiplier < 1 {
		return invalid(fmt.Sprintf("chunk size multiplier must be at least 1, got %d", s.ChunkSizeMultiplier))
	}
	if s.NumParallelUploads < 1 {
		return invalid(fmt.Sprintf("parallel uploads must be at least 1, got %d", s.NumParallelUploads))
	}
	if s.StaggerPercent != skytypes.StaggerNone && (s.StaggerPercent < 0 || s.StaggerPercent > 100) {
		return invalid(fmt.Sprintf("stagger percent must be between 0 and 100, got %d", s.StaggerPercent))
	}
	for i, d := range s.RetryDelays {
		if d < 0 {
			return invalid(fmt.Sprintf("retry delay %d must not be negative", i))
		}
	}
	return nil
}

// ValidateFilename checks the filename reported to the portal.
func ValidateFilename(filename string) error {
	if filename == "" {
		return invalid("filename cannot be empty")
	}
	if strings.ContainsFunc(filename, unicode.IsControl) {
		return invalid("filename cannot contain control characters")
	}
	return nil
}

func invalid(message string) error {
	return errors.NewError("validate", errors.ErrInvalidInput).WithMessage(message)
}
