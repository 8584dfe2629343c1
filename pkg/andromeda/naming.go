package andromeda

import "strings"

// accessorPrefixes are stripped when normalizing a field name for diagnostic
// messages. Their order does not matter: "get"/"is"/"has" never overlap as
// prefixes of one another, so at most one of them can match.
var accessorPrefixes = []string{"get", "is", "has"}

// Normalize strips a leading get/is/has accessor prefix from name and
// lower-cases the new leading character, so diagnostic messages read as
// field names ("externalId") rather than accessor names ("getExternalId").
//
// Normalize is purely cosmetic: it never changes which Name a Directive or
// FieldSource lookup resolves to, only how a Name is rendered in an error.
func Normalize(name Name) string {
	s := string(name)
	for _, prefix := range accessorPrefixes {
		if strings.HasPrefix(s, prefix) && len(s) > len(prefix) && isUpper(s[len(prefix)]) {
			s = s[len(prefix):]
			break
		}
	}
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}
