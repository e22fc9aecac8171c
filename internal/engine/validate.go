package engine

import (
	"regexp"

	"github.com/strandlabs/strand/internal/core"
)

const (
	maxHandleLen    = 64
	maxSubjectLen   = 200
	maxBodyLen      = 65536
	maxTagLen       = 64
	maxMetaKeyLen   = 128
	maxMetaValueLen = 8192

	// DefaultLimit applies when a listing call passes limit <= 0.
	DefaultLimit = 100
	// MaxLimit caps any single listing call.
	MaxLimit = 1000
)

var handlePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

func validateHandle(handle string) error {
	if handle == "" {
		return core.Validationf("handle must not be empty")
	}
	if len(handle) > maxHandleLen {
		return core.Validationf("handle exceeds %d characters", maxHandleLen)
	}
	if !handlePattern.MatchString(handle) {
		return core.Validationf("handle %q has invalid characters", handle)
	}
	return nil
}

func validateSubject(subject string) error {
	if subject == "" {
		return core.Validationf("subject must not be empty")
	}
	if len(subject) > maxSubjectLen {
		return core.Validationf("subject exceeds %d characters", maxSubjectLen)
	}
	return nil
}

func validateBody(body string) error {
	if body == "" {
		return core.Validationf("body must not be empty")
	}
	if len(body) > maxBodyLen {
		return core.Validationf("body exceeds %d bytes", maxBodyLen)
	}
	return nil
}

func validateTags(tags []string) error {
	for _, tag := range tags {
		if tag == "" {
			return core.Validationf("tags must not be empty strings")
		}
		if len(tag) > maxTagLen {
			return core.Validationf("tag %q exceeds %d characters", tag, maxTagLen)
		}
	}
	return nil
}

func validateMetaKey(key string) error {
	if key == "" {
		return core.Validationf("metadata key must not be empty")
	}
	if len(key) > maxMetaKeyLen {
		return core.Validationf("metadata key exceeds %d characters", maxMetaKeyLen)
	}
	return nil
}

func validateMetaValue(value string) error {
	if len(value) > maxMetaValueLen {
		return core.Validationf("metadata value exceeds %d bytes", maxMetaValueLen)
	}
	return nil
}

// clampPage normalizes limit/offset: non-positive limits take the default,
// oversized limits are capped, negative offsets fail.
func clampPage(limit, offset int) (int, int, error) {
	if offset < 0 {
		return 0, 0, core.Validationf("offset must not be negative")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit, offset, nil
}
