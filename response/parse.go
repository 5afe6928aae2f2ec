// response/parse.go
package response

import "strings"

// ParseContentTypeHeader returns the lowercased MIME type of a Content-Type header and its
// parameters.
func ParseContentTypeHeader(header string) (string, map[string]string) {
	parts := strings.SplitN(header, ";", 2)
	mimeType := strings.ToLower(strings.TrimSpace(parts[0]))

	params := make(map[string]string)
	if len(parts) > 1 {
		for _, part := range strings.Split(parts[1], ";") {
			key, value, ok := strings.Cut(part, "=")
			if !ok {
				continue
			}
			params[strings.ToLower(strings.TrimSpace(key))] = strings.Trim(strings.TrimSpace(value), "\"")
		}
	}
	return mimeType, params
}

// bodyKind maps a Content-Type header onto the body formats Jamf Pro answers with: "json",
// "xml", "html" or "text". Structured suffixes such as application/problem+json count as their
// base format. Anything else yields "".
func bodyKind(header string) string {
	mimeType, _ := ParseContentTypeHeader(header)
	switch {
	case mimeType == "application/json", strings.HasSuffix(mimeType, "+json"):
		return "json"
	case mimeType == "application/xml", mimeType == "text/xml", strings.HasSuffix(mimeType, "+xml"):
		return "xml"
	case mimeType == "text/html":
		return "html"
	case mimeType == "text/plain":
		return "text"
	}
	return ""
}
