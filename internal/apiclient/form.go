package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type formField struct {
	name, value string
}

type formFile struct {
	field, path string
}

// Form is a multipart request body under construction. Scalars become text
// parts, nested values become one JSON text part, files become file parts.
type Form struct {
	fields []formField
	files  []formFile
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) Set(name, value string) *Form {
	f.fields = append(f.fields, formField{name, value})
	return f
}

func (f *Form) SetFloat(name string, v float64) *Form {
	return f.Set(name, strconv.FormatFloat(v, 'f', -1, 64))
}

func (f *Form) SetInt(name string, v int) *Form {
	return f.Set(name, strconv.Itoa(v))
}

func (f *Form) SetBool(name string, v bool) *Form {
	return f.Set(name, strconv.FormatBool(v))
}

// SetJSON encodes v into a single text part.
func (f *Form) SetJSON(name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	f.Set(name, string(raw))
	return nil
}

// AttachFile adds the file at path as a file part; it is read on Encode.
func (f *Form) AttachFile(field, path string) *Form {
	f.files = append(f.files, formFile{field, path})
	return f
}

// Value returns the first text part named name.
func (f *Form) Value(name string) (string, bool) {
	for _, fld := range f.fields {
		if fld.name == name {
			return fld.value, true
		}
	}
	return "", false
}

// Files returns the attached paths for field.
func (f *Form) Files(field string) []string {
	var paths []string
	for _, ff := range f.files {
		if ff.field == field {
			paths = append(paths, ff.path)
		}
	}
	return paths
}

// Encode renders the multipart body and its Content-Type.
func (f *Form) Encode() (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", fld.name, err)
		}
	}
	for _, ff := range f.files {
		if err := writeFile(w, ff); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFile(w *multipart.Writer, ff formFile) error {
	mtype, err := mimetype.DetectFile(ff.path)
	if err != nil {
		return fmt.Errorf("detect type of %s: %w", ff.path, err)
	}

	src, err := os.Open(ff.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", ff.path, err)
	}
	defer src.Close()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(ff.field), quoteEscaper.Replace(filepath.Base(ff.path))))
	h.Set("Content-Type", mtype.String())

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part for %s: %w", ff.path, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy %s: %w", ff.path, err)
	}
	return nil
}
