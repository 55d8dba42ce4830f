// Package submission turns drafts into transport-ready request bodies.
package submission

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/mishcolife/catalogadmin/internal/editor/staging"
)

type partKind int

const (
	partValue partKind = iota
	partBlob
	partFile
)

type part struct {
	kind  partKind
	name  string
	value string
	file  staging.File
}

// Payload is an ordered multipart form: text values, JSON blobs and files.
// A Payload owns copies of its file data and is immutable once built.
type Payload struct {
	parts []part
}

func (p *Payload) addValue(name, value string) {
	p.parts = append(p.parts, part{kind: partValue, name: name, value: value})
}

func (p *Payload) addBlob(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	p.parts = append(p.parts, part{kind: partBlob, name: name, value: string(data)})
	return nil
}

func (p *Payload) addFile(name string, f staging.File) {
	f.Data = append([]byte(nil), f.Data...)
	p.parts = append(p.parts, part{kind: partFile, name: name, file: f})
}

// Value returns the text value stored under name
func (p *Payload) Value(name string) (string, bool) {
	for _, pt := range p.parts {
		if pt.name == name && pt.kind == partValue {
			return pt.value, true
		}
	}
	return "", false
}

// Blob returns the JSON document stored under name
func (p *Payload) Blob(name string) (json.RawMessage, bool) {
	for _, pt := range p.parts {
		if pt.name == name && pt.kind == partBlob {
			return json.RawMessage(pt.value), true
		}
	}
	return nil, false
}

// Files returns the files attached under name, in order
func (p *Payload) Files(name string) []staging.File {
	var out []staging.File
	for _, pt := range p.parts {
		if pt.name == name && pt.kind == partFile {
			f := pt.file
			f.Data = append([]byte(nil), f.Data...)
			out = append(out, f)
		}
	}
	return out
}

// Names returns the part names in write order
func (p *Payload) Names() []string {
	out := make([]string, len(p.parts))
	for i, pt := range p.parts {
		out[i] = pt.name
	}
	return out
}

// Boundary returns the multipart boundary. It is derived from the content so
// equal payloads encode to equal bytes.
func (p *Payload) Boundary() string {
	h := sha256.New()
	var n [8]byte
	for _, pt := range p.parts {
		binary.BigEndian.PutUint64(n[:], uint64(pt.kind))
		h.Write(n[:])
		for _, s := range []string{pt.name, pt.value, pt.file.Name, pt.file.ContentType} {
			binary.BigEndian.PutUint64(n[:], uint64(len(s)))
			h.Write(n[:])
			h.Write([]byte(s))
		}
		binary.BigEndian.PutUint64(n[:], uint64(len(pt.file.Data)))
		h.Write(n[:])
		h.Write(pt.file.Data)
	}
	return "catalog-" + hex.EncodeToString(h.Sum(nil))[:40]
}

// ContentType implements providers.Body
func (p *Payload) ContentType() string {
	return "multipart/form-data; boundary=" + p.Boundary()
}

// Open implements providers.Body
func (p *Payload) Open() (io.Reader, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

// WriteTo writes the multipart encoding of the payload to w
func (p *Payload) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	mw := multipart.NewWriter(cw)
	if err := mw.SetBoundary(p.Boundary()); err != nil {
		return cw.n, err
	}

	for _, pt := range p.parts {
		switch pt.kind {
		case partValue, partBlob:
			if err := mw.WriteField(pt.name, pt.value); err != nil {
				return cw.n, fmt.Errorf("write field %s: %w", pt.name, err)
			}
		case partFile:
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
				escapeQuotes(pt.name), escapeQuotes(pt.file.Name)))
			h.Set("Content-Type", pt.file.ContentType)
			fw, err := mw.CreatePart(h)
			if err != nil {
				return cw.n, fmt.Errorf("create file part %s: %w", pt.name, err)
			}
			if _, err := fw.Write(pt.file.Data); err != nil {
				return cw.n, fmt.Errorf("write file part %s: %w", pt.name, err)
			}
		}
	}
	if err := mw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// Bytes returns the full multipart encoding
func (p *Payload) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

// JSONBody is a JSON request body
type JSONBody struct {
	data []byte
}

// NewJSONBody marshals v into a request body
func NewJSONBody(v any) (*JSONBody, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &JSONBody{data: data}, nil
}

// ContentType implements providers.Body
func (b *JSONBody) ContentType() string { return "application/json" }

// Open implements providers.Body
func (b *JSONBody) Open() (io.Reader, error) { return bytes.NewReader(b.data), nil }

// Bytes returns the encoded document
func (b *JSONBody) Bytes() []byte { return append([]byte(nil), b.data...) }
