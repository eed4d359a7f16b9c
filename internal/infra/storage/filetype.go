package storage

import (
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var ErrFileType = errors.New("only PDF, DOC and DOCX files are allowed")

var documentExt = map[string]string{
	MimePDF:  ".pdf",
	MimeDOC:  ".doc",
	MimeDOCX: ".docx",
}

// DetectDocumentType sniffs data and returns the allowed document MIME type it
// carries. The declared type is only trusted when the content is a generic container
// (zip for DOCX, OLE for DOC) that the sniffer cannot narrow down.
func DetectDocumentType(data []byte, declared string) (string, error) {
	if len(data) == 0 {
		return "", ErrFileType
	}

	detected := mimetype.Detect(data)
	for mt := range documentExt {
		if detected.Is(mt) {
			return mt, nil
		}
	}

	declared = strings.TrimSpace(strings.Split(declared, ";")[0])
	switch {
	case declared == MimeDOCX && detected.Is("application/zip"):
		return MimeDOCX, nil
	case declared == MimeDOC && detected.Is("application/x-ole-storage"):
		return MimeDOC, nil
	}
	return "", ErrFileType
}

// DocumentExt returns the file extension for an allowed document type.
func DocumentExt(mimeType string) string {
	return documentExt[mimeType]
}
