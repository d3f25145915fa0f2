package service

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// CVUpload is a CV file as received from the client.
type CVUpload struct {
	Filename string
	Content  io.Reader
}

// InspectedCV is an upload that passed the CV policy.
type InspectedCV struct {
	MIME string
	Ext  string
	Data []byte
}

var allowedCVTypes = []struct {
	mime string
	ext  string
}{
	{"application/pdf", ".pdf"},
	{"application/msword", ".doc"},
	{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", ".docx"},
}

// CVPolicy accepts PDF, DOC and DOCX files up to MaxBytes. The type is taken
// from the content, never from the file name or the client's Content-Type.
type CVPolicy struct {
	MaxBytes int64
}

// Inspect reads the upload and checks it against the policy.
func (p CVPolicy) Inspect(upload CVUpload) (*InspectedCV, error) {
	data, err := io.ReadAll(io.LimitReader(upload.Content, p.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read CV: %w", err)
	}
	if len(data) == 0 {
		return nil, errCVEmpty
	}
	if int64(len(data)) > p.MaxBytes {
		return nil, &cvTooLargeError{max: p.MaxBytes}
	}

	detected := mimetype.Detect(data)
	for _, allowed := range allowedCVTypes {
		if detected.Is(allowed.mime) {
			return &InspectedCV{MIME: allowed.mime, Ext: allowed.ext, Data: data}, nil
		}
	}
	return nil, &cvTypeError{detected: detected.String()}
}

// cvMIME maps a stored CV extension back to its content type.
func cvMIME(ext string) string {
	for _, allowed := range allowedCVTypes {
		if allowed.ext == ext {
			return allowed.mime
		}
	}
	return "application/octet-stream"
}

// Reader returns the accepted content.
func (c *InspectedCV) Reader() io.Reader {
	return bytes.NewReader(c.Data)
}

// CVPolicyError marks violations of the CV policy as opposed to read failures.
type CVPolicyError interface {
	error
	cvPolicy()
}

type cvEmptyError struct{}

func (cvEmptyError) Error() string { return "CV file is empty" }
func (cvEmptyError) cvPolicy()     {}

var errCVEmpty CVPolicyError = cvEmptyError{}

type cvTooLargeError struct{ max int64 }

func (e *cvTooLargeError) Error() string {
	return fmt.Sprintf("CV must not be larger than %d bytes", e.max)
}
func (e *cvTooLargeError) cvPolicy() {}

type cvTypeError struct{ detected string }

func (e *cvTypeError) Error() string {
	return fmt.Sprintf("only PDF, DOC and DOCX files are allowed, got %s", e.detected)
}
func (e *cvTypeError) cvPolicy() {}
