package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

// Multipart cuerpo multipart/form-data con campos de texto y archivos, en orden de inserción.
type Multipart struct {
	parts []part
}

type part struct {
	name        string
	value       string
	filename    string
	contentType string
	content     io.Reader
}

// NewMultipart crea un cuerpo multipart vacío.
func NewMultipart() *Multipart {
	return &Multipart{}
}

// Field agrega un campo de texto.
func (m *Multipart) Field(name, value string) *Multipart {
	m.parts = append(m.parts, part{name: name, value: value})
	return m
}

// File agrega un archivo. Si contentType está vacío se detecta por contenido.
func (m *Multipart) File(name, filename, contentType string, content io.Reader) *Multipart {
	m.parts = append(m.parts, part{name: name, filename: filename, contentType: contentType, content: content})
	return m
}

// encode serializa el cuerpo y devuelve el Content-Type con su boundary.
func (m *Multipart) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, p := range m.parts {
		if p.content == nil {
			if err := w.WriteField(p.name, p.value); err != nil {
				return nil, "", fmt.Errorf("apiclient: campo %s: %w", p.name, err)
			}
			continue
		}
		data, err := io.ReadAll(p.content)
		if err != nil {
			return nil, "", fmt.Errorf("apiclient: leer archivo %s: %w", p.filename, err)
		}
		ct := p.contentType
		if ct == "" {
			ct = http.DetectContentType(data)
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.name, p.filename))
		h.Set("Content-Type", ct)
		fw, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("apiclient: parte %s: %w", p.name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return nil, "", fmt.Errorf("apiclient: escribir %s: %w", p.filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("apiclient: cerrar multipart: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
