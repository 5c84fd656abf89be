package bilingo

import (
	"crypto/md5"
	"encoding/hex"
)

// fieldSeparator keeps the digest sensitive to field boundaries.
const fieldSeparator = "\x00"

// Fingerprint computes the cache key digest of an article.
// MD5 is a change-detection signal here, not a security boundary.
func Fingerprint(body, title, schemaVersion string) string {
	h := md5.New()
	h.Write([]byte(body))
	h.Write([]byte(fieldSeparator))
	h.Write([]byte(title))
	h.Write([]byte(fieldSeparator))
	h.Write([]byte(schemaVersion))
	return hex.EncodeToString(h.Sum(nil))
}

// ItemFingerprint computes the fingerprint of a content item at the current
// schema version.
func ItemFingerprint(item ContentItem) string {
	return Fingerprint(item.Body, item.Title, SchemaVersion)
}
