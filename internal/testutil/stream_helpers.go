package testutil

import (
	"encoding/base64"
	"strings"
)

// junkBlock is a trash marker followed by a padded base64 run ("@@").
const junkBlock = "//_//QEA="

// ObfuscatePayload encodes plain the way the site serves stream payloads:
// base64 text behind a "#h" marker pair with a junk block spliced in every
// eight characters. This is a test helper and should not be used in production code.
func ObfuscatePayload(plain string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(plain))

	var sb strings.Builder
	sb.WriteString("#h")
	for i := 0; i < len(encoded); i += 8 {
		end := min(i+8, len(encoded))
		sb.WriteString(encoded[i:end])
		if end < len(encoded) {
			sb.WriteString(junkBlock)
		}
	}
	return sb.String()
}

// EscapeJSONSlashes escapes forward slashes the way the site's inline JSON does.
func EscapeJSONSlashes(s string) string {
	return strings.ReplaceAll(s, "/", `\/`)
}
