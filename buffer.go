package checkfile

import (
	"bytes"
	"fmt"
)

// SourceLoc is a position inside a Buffer, counting lines and columns from
// zero for internal arithmetic but reporting them from one in String, the
// convention every diagnostic renderer downstream expects.
type SourceLoc struct {
	Offset int
	Line   int
	Col    int
}

func (l SourceLoc) String() string {
	return fmt.Sprintf("%d:%d", l.Line+1, l.Col+1)
}

// Buffer is an immutable view over one canonicalized byte stream (a check
// file or an input stream). It never copies or mutates the underlying bytes;
// the external loader is responsible for canonicalization and NUL
// termination, so Buffer only ever sees the logical content.
type Buffer struct {
	data       []byte
	lineStarts []int // lineStarts[i] = byte offset where line i begins
}

// NewBuffer wraps data in a Buffer, precomputing the line-start table used
// by LocAt. The buffer is immutable and fully known up front, so the table
// is built once rather than grown lazily the way a streaming lexer would.
func NewBuffer(data []byte) *Buffer {
	starts := make([]int, 1, 16)
	starts[0] = 0
	for i, c := range data {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Buffer{data: data, lineStarts: starts}
}

// Bytes returns the full underlying slice. Callers must not mutate it.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the logical length of the buffer (not counting any NUL
// terminator, which the loader never includes here).
func (b *Buffer) Len() int { return len(b.data) }

// Slice returns buf[lo:hi], a zero-copy subslice.
func (b *Buffer) Slice(lo, hi int) []byte { return b.data[lo:hi] }

// Find returns the offset of the first occurrence of sub at or after from,
// or -1 if none exists.
func (b *Buffer) Find(sub []byte, from int) int {
	if from >= len(b.data) {
		if len(sub) == 0 {
			return from
		}
		return -1
	}
	idx := bytes.Index(b.data[from:], sub)
	if idx < 0 {
		return -1
	}
	return from + idx
}

// LocAt computes line/column information for a byte offset using binary
// search over the cached line-start table, the same technique
// positionCalculator.search uses for a UTF-8 check-language source file,
// adapted here to count columns in bytes (the checker's regex dialect
// counts columns in bytes, not runes).
func (b *Buffer) LocAt(offset int) SourceLoc {
	i, j := 0, len(b.lineStarts)
	for i < j {
		m := (i + j) / 2
		if b.lineStarts[m] <= offset {
			i = m + 1
		} else {
			j = m
		}
	}
	line := i - 1
	if line < 0 {
		line = 0
	}
	col := offset - b.lineStarts[line]
	return SourceLoc{Offset: offset, Line: line, Col: col}
}

// countNewlinesBetween counts the number of line breaks in b.data[lo:hi],
// treating "\r\n", "\n\r", "\n" and "\r" each as exactly one newline. The
// input is assumed already canonicalized (no "\r\n" survives canonicalization
// in the normal pipeline), but CHECK-NEXT/-SAME adjacency checks are defined
// in terms of this general rule so that a caller feeding raw bytes still
// gets sane behavior.
func countNewlinesBetween(data []byte, lo, hi int) int {
	count := 0
	i := lo
	for i < hi {
		switch data[i] {
		case '\n':
			count++
			if i+1 < hi && data[i+1] == '\r' {
				i++
			}
		case '\r':
			count++
			if i+1 < hi && data[i+1] == '\n' {
				i++
			}
		}
		i++
	}
	return count
}

func isPartOfWord(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_'
}
