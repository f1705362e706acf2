package core

// import.go turns uploaded bytes into a Dataset.
//
// The flow is:
//  1. ReadUpload reads the whole file, enforcing the size limit
//  2. The UTF-8 BOM is stripped and invalid UTF-8 is replaced
//  3. The detected Format parses the bytes into Records
//  4. BuildDataset assigns row ids and derives the schema

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultMaxFileSize is the upload limit used when none is configured (10MB).
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseFile detects the format of an upload and parses it into a Dataset.
// maxSize <= 0 selects DefaultMaxFileSize.
func ParseFile(fileName, contentType string, r io.Reader, maxSize int64) (Dataset, error) {
	format, err := Detect(fileName, contentType)
	if err != nil {
		return Dataset{}, err
	}

	data, err := ReadUpload(r, maxSize)
	if err != nil {
		return Dataset{}, err
	}

	records, err := format.Parse(bytes.NewReader(data))
	if err != nil {
		return Dataset{}, fmt.Errorf("parse %s: %w", format.Key, err)
	}
	return BuildDataset(records)
}

// ReadUpload reads at most maxSize bytes from r, strips a leading UTF-8 BOM
// and replaces invalid UTF-8 sequences with U+FFFD.
func ReadUpload(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, maxSize)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	return sanitizeUTF8(data), nil
}

func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	return bytes.ToValidUTF8(data, []byte("\uFFFD"))
}

// BuildDataset assigns a fresh id to every record and derives the schema
// from the keys of the first record, in source order. It returns
// ErrEmptyFile when there are no records.
func BuildDataset(records []Record) (Dataset, error) {
	if len(records) == 0 {
		return Dataset{}, ErrEmptyFile
	}

	columns := make([]Column, len(records[0].Keys))
	for i, k := range records[0].Keys {
		columns[i] = Column{Key: k, Label: k, Type: ColumnTypeText}
	}

	rows := make([]Row, len(records))
	for i, rec := range records {
		cells := rec.Values
		if cells == nil {
			cells = make(map[string]Value)
		}
		rows[i] = Row{ID: uuid.NewString(), Cells: cells}
	}

	return Dataset{Columns: columns, Rows: rows}, nil
}

// NormalizeHeaders makes a CSV header row usable as column keys. Blank names
// become "column_N" (1-based position) and repeated names get "_1", "_2", ...
// suffixes in order of appearance.
func NormalizeHeaders(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]bool, len(header))

	for i, h := range header {
		name := h
		if strings.TrimSpace(name) == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		if seen[name] {
			base := name
			for n := 1; seen[name]; n++ {
				name = base + "_" + strconv.Itoa(n)
			}
		}
		seen[name] = true
		out[i] = name
	}
	return out
}
