package handlers

import (
	"mime"
	"net/http"
)

const maxFormBytes = 64 << 10

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// readTaskText returns the raw "task" form field. A missing field is an
// empty string, not an error.
func readTaskText(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	if checkContentType(r, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxFormBytes); err != nil {
			return "", err
		}
	} else if err := r.ParseForm(); err != nil {
		return "", err
	}

	return r.PostFormValue("task"), nil
}
