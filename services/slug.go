package services

import (
	"fmt"
	"strings"
)

// Bucket names used when deriving task keys. Pattern parents always key
// under BucketPattern; a problem keys under its pattern's own name.
const (
	BucketActivity = "activity"
	BucketPattern  = "pattern"
)

// Slugify lowercases s and collapses every maximal run of characters outside
// [a-z0-9] into a single dash, trimming leading and trailing dashes. It is
// pure and total: non-ASCII letters are dropped, which may leave an empty
// result.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		} else {
			pendingDash = true
		}
	}
	return b.String()
}

// MakeTaskKey derives the stable identifier that joins an immutable plan item
// to its mutable TaskMeta. The raw day string is embedded unslugified so a
// range like "3-4" can be read back out of the key; the price is that keys
// are unique per exact day string, not per parsed day.
//
// This is the single key derivation in the codebase. Section building and
// new-user seeding both go through it; a second implementation would
// silently orphan metadata.
func MakeTaskKey(categoryID string, week int, day, bucket, title string) string {
	return fmt.Sprintf("%s__w%d__d%s__%s__%s",
		categoryID, week, day, Slugify(bucket), Slugify(title))
}
