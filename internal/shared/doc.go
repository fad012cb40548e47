// Package shared holds code used across packages that belongs to no single
// layer.
//
// The testutil subpackage provides the test helpers: a buffered slog handler
// for asserting log records and builders for participant workbooks.
package shared
