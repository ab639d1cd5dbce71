package ingestion

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

// maxDocumentXML caps the decompressed size of the document body
const maxDocumentXML = 64 << 20

// extractDOCX returns the text of every w:p paragraph, one per line
func extractDOCX(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "not a valid DOCX archive", Cause: err}
	}

	var body *zip.File
	for _, f := range archive.File {
		if f.Name == docxBody {
			body = f
			break
		}
	}
	if body == nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "missing " + docxBody}
	}

	rc, err := body.Open()
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "cannot open " + docxBody, Cause: err}
	}
	defer func() { _ = rc.Close() }()

	text, err := paragraphs(ctx, io.LimitReader(rc, maxDocumentXML))
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "malformed " + docxBody, Cause: err}
	}
	return text, nil
}

// paragraphs walks WordprocessingML tokens, concatenating w:t runs per paragraph.
// Tabs and breaks inside a paragraph become spaces.
func paragraphs(ctx context.Context, r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var (
		out    strings.Builder
		para   strings.Builder
		inText bool
	)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				para.Reset()
			case "t":
				inText = true
			case "tab", "br", "cr":
				para.WriteString(" ")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if line := strings.TrimSpace(para.String()); line != "" {
					out.WriteString(line)
					out.WriteString("\n")
				}
				para.Reset()
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	return out.String(), nil
}
