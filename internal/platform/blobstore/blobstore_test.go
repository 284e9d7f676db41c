package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestInMemoryStore_PutGetDelete(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	blob, err := s.Put(ctx, "report.pdf", "application/pdf", strings.NewReader("pdf-bytes"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if blob.Size != 9 || blob.Name != "report.pdf" {
		t.Errorf("blob = %+v", blob)
	}

	got, rc, err := s.Get(ctx, blob.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "pdf-bytes" || got.ContentType != "application/pdf" {
		t.Errorf("got %q (%s)", data, got.ContentType)
	}

	if err := s.Delete(ctx, blob.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := s.Get(ctx, blob.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestInMemoryStore_RejectsEmpty(t *testing.T) {
	s := NewInMemoryStore()
	if _, err := s.Put(context.Background(), "x", "text/plain", strings.NewReader("")); !errors.Is(err, ErrEmptyUpload) {
		t.Errorf("expected ErrEmptyUpload, got %v", err)
	}
}

func TestInMemoryStore_RejectsOversized(t *testing.T) {
	s := NewInMemoryStore()
	big := io.LimitReader(neverEnding('x'), MaxFileSize+1)
	if _, err := s.Put(context.Background(), "big", "text/plain", big); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

type neverEnding byte

func (b neverEnding) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(b)
	}
	return len(p), nil
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestHandler_UploadAndDownload(t *testing.T) {
	h := NewHandler(NewInMemoryStore(), "http://localhost:8080")
	e := echo.New()

	body, contentType := multipartBody(t, "file", "scan.png", "png-bytes")
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()

	if err := h.Upload(e.NewContext(req, rec)); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/api/files/") {
		t.Errorf("expected public url in response, got %s", rec.Body.String())
	}
}

func TestHandler_UploadMissingFile(t *testing.T) {
	h := NewHandler(NewInMemoryStore(), "http://localhost:8080")
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not multipart"))
	rec := httptest.NewRecorder()

	err := h.Upload(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_DownloadNotFound(t *testing.T) {
	h := NewHandler(NewInMemoryStore(), "http://localhost:8080")
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.Download(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}
