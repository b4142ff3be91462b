package errors

import (
	"strings"
	"unicode"
)

// ValidateRevision validates a revision argument before it is passed to git.
// It rejects values git would parse as options.
func ValidateRevision(rev string) error {
	if rev == "" {
		return New(ErrCodeInvalidInput, "revision cannot be empty")
	}
	if len(rev) > 256 {
		return New(ErrCodeInvalidInput, "revision too long (max 256 characters)")
	}
	if strings.HasPrefix(rev, "-") {
		return New(ErrCodeInvalidInput, "revision cannot start with '-': %q", rev)
	}
	for _, r := range rev {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "revision contains invalid characters: %q", rev)
		}
	}
	return nil
}

// ValidatePath validates a local file or repository path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateHash validates a commit identifier read from an input file.
// Hashes are opaque, but they end up in cache keys and terminal output.
func ValidateHash(hash string) error {
	if hash == "" {
		return New(ErrCodeInvalidInput, "commit hash cannot be empty")
	}
	if len(hash) > 256 {
		return New(ErrCodeInvalidInput, "commit hash too long (max 256 characters)")
	}
	for _, r := range hash {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "commit hash contains invalid characters: %q", hash)
		}
	}
	return nil
}
