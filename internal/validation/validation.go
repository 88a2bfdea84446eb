package validation

import (
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// SafeRedirect returns path if it is a local absolute path, otherwise "/".
// It keeps post-login redirects on this site.
func SafeRedirect(path string) string {
	if path == "" || !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.Contains(path, `\`) {
		return "/"
	}
	u, err := url.Parse(path)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return path
}

// ValidateUpload checks a spreadsheet upload by name and size.
func ValidateUpload(filename string, size, maxBytes int64) (bool, string) {
	if filename == "" || size == 0 {
		return false, "Vælg en fil at uploade."
	}
	if !strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return false, "Filen skal være en Excel-fil (.xlsx)."
	}
	if maxBytes > 0 && size > maxBytes {
		return false, "Filen er for stor."
	}
	return true, ""
}

// ValidateNote checks that a note or help article has a title and a body.
func ValidateNote(title, body string) (bool, string) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "" {
		return false, "Udfyld mindst titel og indhold."
	}
	return true, ""
}

// ParseTags splits a comma-separated tag list, trimming each tag and
// dropping empty ones.
func ParseTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ParseEstimate reads an estimated potential typed by an operator. Blank
// input is zero; a comma is accepted as decimal separator.
func ParseEstimate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	s = strings.ReplaceAll(s, " ", "")
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
