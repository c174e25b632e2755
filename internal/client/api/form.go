package api

import (
	"bytes"
	"mime/multipart"
)

// form builds a multipart/form-data body. The first write error sticks
// and is reported by encode.
type form struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newForm() *form {
	f := &form{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

func (f *form) set(name, value string) *form {
	if f.err == nil {
		f.err = f.w.WriteField(name, value)
	}
	return f
}

// setNonEmpty skips empty values, for optional fields the API rejects
// when blank.
func (f *form) setNonEmpty(name, value string) *form {
	if value == "" {
		return f
	}
	return f.set(name, value)
}

// add appends one part per value under the same name.
func (f *form) add(name string, values []string) *form {
	for _, v := range values {
		f.set(name, v)
	}
	return f
}

func (f *form) encode() (*bytes.Reader, string, error) {
	if f.err == nil {
		f.err = f.w.Close()
	}
	if f.err != nil {
		return nil, "", f.err
	}
	return bytes.NewReader(f.buf.Bytes()), f.w.FormDataContentType(), nil
}
