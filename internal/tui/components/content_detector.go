package components

import "strings"

// ContentFormat is the detected format of a response body.
type ContentFormat string

const (
	FormatJSON ContentFormat = "json"
	FormatXML  ContentFormat = "xml"
	FormatHTML ContentFormat = "html"
	FormatText ContentFormat = "text"
)

// Upper returns the format for display in badges.
func (f ContentFormat) Upper() string {
	return strings.ToUpper(string(f))
}

// DetectContentFormat trusts the Content-Type header and falls back to
// sniffing the body.
func DetectContentFormat(contentType, body string) ContentFormat {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "json"):
		return FormatJSON
	case strings.Contains(ct, "text/html"):
		return FormatHTML
	case strings.Contains(ct, "xml"):
		return FormatXML
	}

	trimmed := strings.TrimSpace(body)
	switch {
	case trimmed == "":
		return FormatText
	case IsJSON(trimmed):
		return FormatJSON
	case trimmed[0] != '<':
		return FormatText
	}

	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "<!doctype html") || strings.Contains(lower, "<html") {
		return FormatHTML
	}
	return FormatXML
}
