package paper

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ExportChannel packages the document as a Word file. The HTML envelope is
// embedded as an altChunk, which Word converts to native content on open.
type ExportChannel struct{}

const (
	docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Default Extension="htm" ContentType="text/html"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`

	docxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`

	docxDocumentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="htmlChunk" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/aFChunk" Target="/word/afchunk.htm"/>` +
		`</Relationships>`

	// A4 portrait with one-inch margins.
	docxDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
		`<w:body><w:altChunk r:id="htmlChunk"/>` +
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838" w:orient="portrait"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/>` +
		`</w:sectPr></w:body></w:document>`
)

// docxEpoch keeps archives byte-for-byte reproducible.
var docxEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func (ExportChannel) Deliver(doc *Document) (*Artifact, error) {
	chunk, err := Envelope(doc)
	if err != nil {
		return nil, err
	}

	parts := []struct {
		name string
		body []byte
	}{
		{"[Content_Types].xml", []byte(docxContentTypes)},
		{"_rels/.rels", []byte(docxRootRels)},
		{"word/document.xml", []byte(docxDocument)},
		{"word/_rels/document.xml.rels", []byte(docxDocumentRels)},
		{"word/afchunk.htm", chunk},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: docxEpoch,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := w.Write(p.body); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx: %w", err)
	}

	return &Artifact{
		FileName:    doc.Variant.FileStem() + ".docx",
		ContentType: docxContentType,
		Body:        buf.Bytes(),
	}, nil
}
