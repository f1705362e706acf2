// Package core provides the editing logic for tabular files.
//
// This package holds all domain logic independent of any UI or transport
// layer. The web server, the terminal UI and the CLI all drive it.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Sheet: the state store for one editor. It owns the canonical rows, the
//     search term, the sort, the selection and the edit cursor.
//   - Projection: the rows actually displayed, recomputed from scratch by
//     [Project] after every change.
//   - Formats: importers registered by key via [Register] and picked by
//     [Detect].
//   - Service: the session registry used by the web frontend.
//
// # Rows
//
// Every imported or added row gets a random id. Selection, editing and
// deletion address rows by id, so they work the same whether or not the row
// is visible in the projection. Rows are never written in place: an edit
// replaces the row with a copy, so a [View] taken earlier keeps its values.
//
// # Import
//
// Uploads are read whole, limited to the configured size:
//
//  1. [Detect] picks the format from the content type or extension
//  2. [ReadUpload] enforces the size limit and cleans up the encoding
//  3. The format parses the bytes into [Record]s
//  4. [BuildDataset] assigns ids and derives the column schema
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE008: File errors (size, format, empty input)
//   - UPL002-UPL006: Import errors (busy, cancelled, timeout)
//   - SES001-SES003: Session errors
//   - ROW001: Row errors
package core
