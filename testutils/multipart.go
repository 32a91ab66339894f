package testutils

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

// UploadFile is one part of a multipart body built by MultipartBody.
type UploadFile struct {
	Field    string
	Filename string
	Content  []byte
}

// MultipartBody encodes files into a multipart/form-data body and returns it
// with its content type.
func MultipartBody(t *testing.T, files ...UploadFile) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(f.Content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, w.FormDataContentType()
}

// FileHeaders parses files back into the headers a handler would see.
func FileHeaders(t *testing.T, files ...UploadFile) []*multipart.FileHeader {
	t.Helper()

	body, contentType := MultipartBody(t, files...)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}

	var headers []*multipart.FileHeader
	for _, f := range files {
		for _, h := range req.MultipartForm.File[f.Field] {
			if h.Filename == f.Filename {
				headers = append(headers, h)
			}
		}
	}
	return headers
}

// FileHeader is FileHeaders for a single "image" part.
func FileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	headers := FileHeaders(t, UploadFile{Field: "image", Filename: filename, Content: content})
	if len(headers) != 1 {
		t.Fatalf("expected one file header, got %d", len(headers))
	}
	return headers[0]
}
