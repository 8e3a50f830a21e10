package filestore

import (
	"io"
	"net/http"
	"strings"
	"time"
)

// Public reports whether key may be served without staff auth. Generated
// proposals carry client contacts and are only downloadable from the admin.
func Public(key string) bool {
	return !strings.HasPrefix(key, PrefixProposals+"/")
}

// Serve streams a stored file. Seekable files go through http.ServeContent
// so Range and If-Range requests work; headers set by the caller are kept.
func Serve(w http.ResponseWriter, r *http.Request, name string, rc io.Reader) error {
	if rs, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(w, r, name, time.Time{}, rs)
		return nil
	}
	w.WriteHeader(http.StatusOK)
	_, err := io.Copy(w, rc)
	return err
}
