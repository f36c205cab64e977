package parser

import (
	"bytes"
	"io"
	"mime"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// NewUTF8Reader wraps body so that it always yields UTF-8.
//
// contentType is the Content-Type header of the response, if known. When it
// names no charset the encoding is detected from the BOM, then from
// <meta charset> / http-equiv tags, then heuristically. Some mirrors of the
// site still serve windows-1251 pages.
func NewUTF8Reader(body io.Reader, contentType string) (io.Reader, error) {
	return charset.NewReader(body, contentType)
}

// ReadUTF8 reads body fully and returns it as a UTF-8 string. Without an
// explicit charset, a body that is already valid UTF-8 is returned untouched:
// detection only looks at the first kilobyte and would fall back to
// windows-1252 for pages whose non-ASCII text starts later.
func ReadUTF8(body io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if !declaresCharset(contentType) && utf8.Valid(data) {
		return string(data), nil
	}

	reader, err := NewUTF8Reader(bytes.NewReader(data), contentType)
	if err != nil {
		return "", err
	}
	converted, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(converted), nil
}

func declaresCharset(contentType string) bool {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	_, ok := params["charset"]
	return ok
}
