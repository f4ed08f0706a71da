// Package table turns imported CSV files into header-keyed records.
package table

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"strings"
)

// Record maps a header label to its cell value.
type Record map[string]string

// Table is the result of parsing a CSV file: its headers and its data records, in file order.
type Table struct {
	Headers   []string
	Records   []Record
	Delimiter rune
}

func (t Table) IsEmpty() bool { return len(t.Records) == 0 }

// BuildRecords uses the first row as headers and maps every following non-blank row to a Record.
// Blank header cells are named `col_<position>`.
func BuildRecords(rows [][]string) (Table, error) {
	if len(rows) == 0 {
		return Table{}, nil
	}

	hasLabel := false
	headers := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		label := strings.TrimSpace(cell)
		if label == "" {
			label = fmt.Sprintf("col_%d", i+1)
		} else {
			hasLabel = true
		}
		headers[i] = label
	}
	if !hasLabel {
		return Table{}, &HeaderInferenceError{Columns: len(headers)}
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := make(Record, len(headers))
		for i, header := range headers {
			if i < len(row) {
				rec[header] = row[i]
			} else {
				rec[header] = ""
			}
		}
		records = append(records, rec)
	}
	return Table{Headers: headers, Records: records}, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Parse runs the whole text pipeline: delimiter detection, row parsing and record building.
func Parse(text string) (Table, error) {
	if strings.TrimSpace(text) == "" {
		return Table{}, nil
	}
	delim := DetectDelimiter(text)
	tbl, err := BuildRecords(ParseRows(text, delim))
	if err != nil {
		return Table{}, err
	}
	tbl.Delimiter = delim
	return tbl, nil
}

// Import reads, decodes and parses a CSV file.
// maxBytes <= 0 disables the size limit.
func Import(ctx context.Context, name string, r io.Reader, maxBytes int64) (Table, error) {
	data, err := readAll(ctx, r, maxBytes)
	if err != nil {
		return Table{}, &FileReadError{Name: name, Err: err}
	}
	text, err := Decode(data)
	if err != nil {
		if derr, ok := err.(*DecodeError); ok {
			derr.Name = name
		}
		return Table{}, err
	}
	return Parse(text)
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

func readAll(ctx context.Context, r io.Reader, maxBytes int64) ([]byte, error) {
	if r == nil {
		return nil, io.ErrUnexpectedEOF
	}
	rdr := io.Reader(ctxReader{ctx: ctx, r: r})
	if maxBytes > 0 {
		rdr = io.LimitReader(rdr, maxBytes+1)
	}
	data, err := ioutil.ReadAll(rdr)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
