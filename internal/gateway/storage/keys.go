package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var newObjectID = uuid.NewString

// AvatarKey is fixed per user so a new picture replaces the old object.
func AvatarKey(userID int64, ext string) string {
	return fmt.Sprintf("profile_pictures/%d_profile.%s", userID, normalizeExt(ext))
}

func PostKey(userID int64, at time.Time, ext string) string {
	at = at.UTC()
	return fmt.Sprintf("posts/%d/%04d/%02d/%02d/%s.%s",
		userID, at.Year(), int(at.Month()), at.Day(), newObjectID(), normalizeExt(ext))
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return "bin"
	}
	return ext
}
