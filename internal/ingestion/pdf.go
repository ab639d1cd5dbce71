package ingestion

import (
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// extractPDF returns the plain text of every page. The PDF reader panics on some malformed
// inputs, so panics are turned into extraction errors.
func extractPDF(r io.ReaderAt, size int64) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = &ExtractionError{Format: FormatPDF, Message: "malformed document", Cause: fmt.Errorf("%v", rec)}
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", &ExtractionError{Format: FormatPDF, Message: "cannot open document", Cause: err}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &ExtractionError{Format: FormatPDF, Message: "cannot read text", Cause: err}
	}

	data, err := io.ReadAll(plain)
	if err != nil {
		return "", &ExtractionError{Format: FormatPDF, Message: "cannot read text", Cause: err}
	}
	return string(data), nil
}
