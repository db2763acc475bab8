package office

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/pyhub-apps/pdfops-golang/pkg/archive"
)

// DocxMediaType is the media type of a word-processing document
const DocxMediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const docxContentTypes = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const docxRootRels = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

// US Letter with one inch margins, in twentieths of a point
const docxSection = `<w:sectPr><w:pgSz w:w="12240" w:h="15840"/>` +
	`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>`

// WordDocument is an ordered list of paragraphs
type WordDocument struct {
	paragraphs []string
}

// AddParagraph appends a paragraph. Newlines inside text become line breaks
// within the paragraph.
func (d *WordDocument) AddParagraph(text string) {
	d.paragraphs = append(d.paragraphs, text)
}

// Paragraphs returns the paragraphs added so far
func (d *WordDocument) Paragraphs() []string {
	return d.paragraphs
}

// Bytes serializes the document as a .docx package
func (d *WordDocument) Bytes() ([]byte, error) {
	var body bytes.Buffer
	body.WriteString(xml.Header)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range d.paragraphs {
		body.WriteString(`<w:p><w:r>`)
		lines := strings.Split(strings.ReplaceAll(p, "\r\n", "\n"), "\n")
		for i, line := range lines {
			if i > 0 {
				body.WriteString(`<w:br/>`)
			}
			body.WriteString(`<w:t xml:space="preserve">`)
			if err := xml.EscapeText(&body, []byte(line)); err != nil {
				return nil, err
			}
			body.WriteString(`</w:t>`)
		}
		body.WriteString(`</w:r></w:p>`)
	}
	body.WriteString(docxSection)
	body.WriteString(`</w:body></w:document>`)

	return archive.Bundle([]archive.Entry{
		{Name: "[Content_Types].xml", Data: []byte(docxContentTypes)},
		{Name: "_rels/.rels", Data: []byte(docxRootRels)},
		{Name: "word/document.xml", Data: body.Bytes()},
	})
}
