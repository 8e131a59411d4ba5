package shared

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"hrmweb/internal/forms"
)

var ErrUploadTooLarge = errors.New("file is too large")

// ReadUpload pulls one optional file field out of a parsed multipart form.
// A missing or empty file yields nil.
func ReadUpload(r *http.Request, field, kind string, maxBytes int64) (*forms.PendingUpload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	defer file.Close()
	return readPart(file, header, kind, maxBytes)
}

func readPart(file multipart.File, header *multipart.FileHeader, kind string, maxBytes int64) (*forms.PendingUpload, error) {
	if header.Size == 0 {
		return nil, nil
	}
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, ErrUploadTooLarge
	}
	var reader io.Reader = file
	if maxBytes > 0 {
		reader = io.LimitReader(file, maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ErrUploadTooLarge
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &forms.PendingUpload{
		Kind:        kind,
		FileName:    filepath.Base(strings.ReplaceAll(header.Filename, "\\", "/")),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// ParseForm parses urlencoded and multipart bodies alike.
func ParseForm(r *http.Request, maxMemory int64) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxMemory)
	}
	return r.ParseForm()
}

// FormValues copies the first value of every posted field.
func FormValues(r *http.Request) forms.Values {
	out := forms.Values{}
	for key, values := range r.PostForm {
		if len(values) > 0 {
			out[key] = values[0]
		}
	}
	return out
}
