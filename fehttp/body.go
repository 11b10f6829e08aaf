// Copyright 2024 G-Core Innovations SARL

package fehttp

import "encoding/json"

const (
	contentTypeText   = "text/plain; charset=utf-8"
	contentTypeBinary = "application/octet-stream"
	contentTypeJSON   = "application/json"
)

// Body is an HTTP payload together with a content type fixed when the body
// is built. The content type is advisory: it describes the payload but is
// never injected into a header set automatically.
type Body struct {
	b  []byte
	ct string
}

// TextBody builds a plain-text body.
func TextBody(s string) Body {
	return Body{b: []byte(s), ct: contentTypeText}
}

// BinaryBody builds an opaque binary body. The bytes are used as-is, not
// copied.
func BinaryBody(b []byte) Body {
	return Body{b: b, ct: contentTypeBinary}
}

// JSONBody builds a body holding the JSON encoding of v.
func JSONBody(v any) (Body, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Body{}, err
	}
	return Body{b: b, ct: contentTypeJSON}, nil
}

// Bytes returns the payload. It is not a copy.
func (b Body) Bytes() []byte { return b.b }

// String returns the payload as text.
func (b Body) String() string { return string(b.b) }

// Len returns the payload length in bytes.
func (b Body) Len() int { return len(b.b) }

// ContentType returns the content type fixed at construction. The zero Body
// is empty plain text.
func (b Body) ContentType() string {
	if b.ct == "" {
		return contentTypeText
	}
	return b.ct
}
