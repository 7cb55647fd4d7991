// Package objstore holds menu item images. The catalog service stores
// uploads under generated names and persists the returned public URL
// verbatim in the item record.
package objstore

import (
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ObjectStore stores publicly readable image objects by name.
type ObjectStore interface {
	// Put stores the object under name and returns its public URL.
	Put(name string, r io.Reader) (string, error)
	// Remove deletes the object. Removing an object that no longer
	// exists is not an error.
	Remove(name string) error
}

// GenerateName builds a fresh object name from the current time and
// the extension of the uploaded file, e.g. "1756339200123.jpg".
func GenerateName(originalFilename string) string {
	ext := strings.TrimPrefix(path.Ext(originalFilename), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%d.%s", time.Now().UnixMilli(), ext)
}

// NameFromURL extracts the object name from a stored public URL.
// Returns "" when the URL is empty.
func NameFromURL(url string) string {
	if url == "" {
		return ""
	}
	name := url[strings.LastIndex(url, "/")+1:]
	// Strip any query string appended by the serving layer.
	if i := strings.Index(name, "?"); i >= 0 {
		name = name[:i]
	}
	return name
}
