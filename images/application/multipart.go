package application

import (
	"bytes"
	"regexp"
)

var (
	headerTerminator  = []byte("\r\n\r\n")
	dispositionMarker = []byte("Content-Disposition: form-data;")
	filenameMarker    = []byte("filename=")
	filenamePattern   = regexp.MustCompile(`filename="([^"]+)"`)
)

// ExtractFile pulls the first file field out of a raw multipart/form-data
// body. It splits the body on the boundary delimiter and returns the payload
// and declared filename of the first segment whose headers carry a form-data
// content disposition with a filename attribute.
//
// This is deliberately not a general multipart parser: only the first file
// field is honored, and nested parts, transfer encodings, and non-UTF-8
// header charsets are out of scope. When no segment qualifies, ok is false
// and no error is raised.
func ExtractFile(rawBody, boundary []byte) (content []byte, filename string, ok bool) {
	if len(boundary) == 0 {
		return nil, "", false
	}

	delimiter := append([]byte("--"), boundary...)
	parts := bytes.Split(rawBody, delimiter)

	for _, part := range parts {
		if !bytes.Contains(part, dispositionMarker) || !bytes.Contains(part, filenameMarker) {
			continue
		}

		headersEnd := bytes.Index(part, headerTerminator)
		if headersEnd < 0 {
			continue
		}

		match := filenamePattern.FindSubmatch(part[:headersEnd])
		if match == nil {
			continue
		}

		payload := bytes.TrimSpace(part[headersEnd+len(headerTerminator):])
		return payload, string(match[1]), true
	}

	return nil, "", false
}
