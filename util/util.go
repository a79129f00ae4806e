package util

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Dataset ids become path segments and cache key parts.
var identifierRegexp = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

func GetUUID() string {
	return uuid.New().String()
}

func IsValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// IsValidIdentifier reports whether id is a safe dataset or run id.
func IsValidIdentifier(id string) bool {
	return identifierRegexp.MatchString(id)
}

func TimeNowZ() time.Time {
	return time.Now().UTC()
}

// SecondsToDuration converts seconds to a duration, 0 for non-positive input.
func SecondsToDuration(secs int) time.Duration {
	if secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
