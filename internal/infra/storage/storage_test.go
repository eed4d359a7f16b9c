package storage

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func bareZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("hello"))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDetectDocumentType(t *testing.T) {
	got, err := DetectDocumentType(samplePDF, "application/octet-stream")
	if err != nil || got != MimePDF {
		t.Fatalf("pdf = %q, %v", got, err)
	}
	if DocumentExt(got) != ".pdf" {
		t.Errorf("ext = %q", DocumentExt(got))
	}

	// a zip container is only a document when declared as DOCX
	zipped := bareZip(t)
	got, err = DetectDocumentType(zipped, MimeDOCX)
	if err != nil || got != MimeDOCX {
		t.Errorf("declared docx = %q, %v", got, err)
	}
	if _, err := DetectDocumentType(zipped, "application/zip"); !errors.Is(err, ErrFileType) {
		t.Errorf("plain zip accepted: %v", err)
	}

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if _, err := DetectDocumentType(png, MimePDF); !errors.Is(err, ErrFileType) {
		t.Errorf("png declared as pdf accepted: %v", err)
	}
	if _, err := DetectDocumentType(nil, MimePDF); !errors.Is(err, ErrFileType) {
		t.Errorf("empty data accepted: %v", err)
	}
}

func TestDiskAdapterStore(t *testing.T) {
	dir := t.TempDir()
	a := NewAdapter(NewDiskBackend(dir, "http://localhost:8080/"))

	f, err := a.Store(context.Background(), samplePDF, MimePDF, "abstracts", "ABS-2025-1234.pdf")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if f.URL != "http://localhost:8080/uploads/abstracts/ABS-2025-1234.pdf" {
		t.Errorf("url = %q", f.URL)
	}
	data, err := os.ReadFile(filepath.Join(dir, "abstracts", "ABS-2025-1234.pdf"))
	if err != nil || !bytes.Equal(data, samplePDF) {
		t.Errorf("stored file = %d bytes, %v", len(data), err)
	}
}

func TestStoreSanitisesKeys(t *testing.T) {
	a := NewAdapter(NewDiskBackend(t.TempDir(), ""))

	f, err := a.Store(context.Background(), []byte("x"), MimePDF, "../abstracts", "../../etc/pass wd.pdf")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if strings.Contains(f.Path, "..") || strings.Count(f.Path, "/") != 1 {
		t.Errorf("path = %q", f.Path)
	}

	if _, err := a.Store(context.Background(), []byte("x"), MimePDF, "abstracts", "///"); err == nil {
		t.Error("empty filename accepted")
	}
}

func TestScanCodeImage(t *testing.T) {
	dir := t.TempDir()
	a := NewAdapter(NewDiskBackend(dir, "https://cdn.test"))

	url, err := a.ScanCodeImage(context.Background(), "PHAR-2025-12345")
	if err != nil {
		t.Fatalf("ScanCodeImage: %v", err)
	}
	if url != "https://cdn.test/uploads/qrcodes/PHAR-2025-12345.png" {
		t.Errorf("url = %q", url)
	}
	data, err := os.ReadFile(filepath.Join(dir, "qrcodes", "PHAR-2025-12345.png"))
	if err != nil || !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("qr image not written as png: %v", err)
	}
}
