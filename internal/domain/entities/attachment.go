package entities

import "strings"

// AttachmentRef is a store-relative path of a previously uploaded image
type AttachmentRef string

// Resolve returns a renderable URL for the reference. Absolute URLs are kept
// as-is, relative paths are joined to baseURL, and an empty reference
// resolves to placeholder.
func (r AttachmentRef) Resolve(baseURL, placeholder string) string {
	ref := strings.TrimSpace(string(r))
	if ref == "" {
		return placeholder
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(ref, "/")
}

// RefStrings converts references to plain strings, preserving order
func RefStrings(refs []AttachmentRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = string(r)
	}
	return out
}
