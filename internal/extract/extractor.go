// Package extract turns uploaded study documents into plain text.
//
// Extraction never fails the caller: every outcome, including unsupported
// types and reader failures, is reported through Result so that one bad file
// in an upload batch cannot affect its siblings.
package extract

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/saulo-duarte/studyquiz/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	MimeText = "text/plain"
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

	mimeOctetStream = "application/octet-stream"
)

const (
	ErrMsgPPTXNotSupported = "PPTX file type not yet supported"
	ErrMsgUnsupportedType  = "unsupported file type"
)

type Source struct {
	Name     string
	MimeType string
	Data     []byte
}

// Result carries either extracted text or a processing error. Both are nil for
// a readable file that contained no text.
type Result struct {
	Text  *string
	Error *string
}

func (r Result) Processed() bool {
	return r.Text != nil && *r.Text != ""
}

type Extractor interface {
	Extract(ctx context.Context, src Source) Result
}

// TextReader converts raw document bytes to text.
type TextReader func(data []byte) (string, error)

type extractor struct {
	pdf  TextReader
	docx TextReader
}

func NewExtractor() Extractor {
	return &extractor{
		pdf:  ReadPDF,
		docx: ReadDOCX,
	}
}

// NewExtractorWithReaders lets callers swap the binary format readers.
func NewExtractorWithReaders(pdf, docx TextReader) Extractor {
	return &extractor{pdf: pdf, docx: docx}
}

func (e *extractor) Extract(ctx context.Context, src Source) Result {
	log := config.WithContext(ctx).WithField("file", src.Name)
	mimeType := DetectMimeType(src.Name, src.MimeType)

	switch mimeType {
	case MimeText:
		return textResult(string(src.Data))
	case MimePDF:
		return e.read(log.WithField("format", "pdf"), e.pdf, src.Data)
	case MimeDOCX:
		return e.read(log.WithField("format", "docx"), e.docx, src.Data)
	case MimePPTX:
		log.Info("PPTX extraction not supported yet")
		return errorResult(ErrMsgPPTXNotSupported)
	default:
		log.WithField("mime_type", mimeType).Info("Unsupported file type for text extraction")
		return errorResult(ErrMsgUnsupportedType)
	}
}

func (e *extractor) read(log *logrus.Entry, reader TextReader, data []byte) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("%v", r)
			log.WithField("panic", msg).Error("Document reader panicked")
			res = errorResult(msg)
		}
	}()

	text, err := reader(data)
	if err != nil {
		log.WithError(err).Warn("Text extraction failed")
		return errorResult(err.Error())
	}
	log.WithField("length", len(text)).Debug("Text extraction successful")
	return textResult(text)
}

func textResult(text string) Result {
	text = sanitize(text)
	if text == "" {
		return Result{}
	}
	return Result{Text: &text}
}

func errorResult(msg string) Result {
	msg = sanitize(msg)
	return Result{Error: &msg}
}

// sanitize makes s storable in a UTF-8 text column: invalid sequences become
// U+FFFD and NUL bytes are dropped. Valid UTF-8 without NULs is unchanged.
func sanitize(s string) string {
	if utf8.ValidString(s) && !strings.ContainsRune(s, 0) {
		return s
	}
	s = strings.ToValidUTF8(s, "\uFFFD")
	return strings.ReplaceAll(s, "\x00", "")
}

var extensionTypes = map[string]string{
	".txt":  MimeText,
	".pdf":  MimePDF,
	".docx": MimeDOCX,
	".pptx": MimePPTX,
}

// DetectMimeType normalizes the declared type and falls back to the file
// extension when the client sent nothing useful.
func DetectMimeType(filename, declared string) string {
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			declared = mediaType
		}
		declared = strings.ToLower(declared)
		if declared != mimeOctetStream {
			return declared
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if mediaType, _, err := mime.ParseMediaType(t); err == nil {
			return mediaType
		}
	}
	return mimeOctetStream
}
