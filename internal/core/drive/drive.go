// Package drive recognizes Google Drive share links used as audio sources
// and rewrites them into direct-download links.
package drive

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// Host is the substring an audio source host must contain.
const Host = "drive.google.com"

// MinFileIDLength is the shortest accepted Drive file ID.
const MinFileIDLength = 25

var (
	ErrNotHTTP       = errors.New("audio_source must be an http(s) URL")
	ErrNotDrive      = errors.New("audio_source must point to " + Host)
	ErrMissingFileID = errors.New("audio_source does not contain a Google Drive file ID")
)

var (
	// matches /file/d/<id>/view, /d/<id>, /open/d/<id> ...
	pathIDPattern = regexp.MustCompile(`/d/([^/?#]+)`)
	idPattern     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// FileID extracts the Drive file ID from a parsed URL, looking first at the
// path and then at the id query parameter. It returns "" when neither holds a
// candidate.
func FileID(u *url.URL) string {
	if m := pathIDPattern.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	return u.Query().Get("id")
}

// Check validates raw as a Drive audio source and returns its file ID.
// minIDLength <= 0 means MinFileIDLength.
func Check(raw string, minIDLength int) (string, error) {
	if minIDLength <= 0 {
		minIDLength = MinFileIDLength
	}

	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(strings.ToLower(raw), "http") {
		return "", ErrNotHTTP
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrNotHTTP
	}

	if !strings.Contains(strings.ToLower(u.Host), Host) {
		return "", ErrNotDrive
	}

	id := FileID(u)
	if len(id) < minIDLength || !idPattern.MatchString(id) {
		return "", ErrMissingFileID
	}

	return id, nil
}

// DirectURL returns the direct-download link for a Drive file ID.
func DirectURL(id string) string {
	return "https://" + Host + "/uc?export=download&id=" + id
}

// Rewrite returns the direct-download form of a valid Drive link. changed is
// false when raw is not a valid Drive link or is already in direct form.
func Rewrite(raw string, minIDLength int) (out string, changed bool) {
	id, err := Check(raw, minIDLength)
	if err != nil {
		return raw, false
	}
	out = DirectURL(id)
	return out, out != raw
}
