// Package document renders tabular reports to XLSX workbooks and PDF files.
package document

// Table is a titled grid of cells. Rows shorter than Header are padded with blanks.
type Table struct {
	Title  string
	Header []string
	Rows   [][]any
}

// KeyValue is one labelled line in a PDF header block.
type KeyValue struct {
	Key   string
	Value string
}
