package checkfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferLocAt(t *testing.T) {
	buf := NewBuffer([]byte("abc\ndef\nghi"))

	loc := buf.LocAt(0)
	require.Equal(t, SourceLoc{Offset: 0, Line: 0, Col: 0}, loc)

	loc = buf.LocAt(4)
	require.Equal(t, SourceLoc{Offset: 4, Line: 1, Col: 0}, loc)

	loc = buf.LocAt(9)
	require.Equal(t, SourceLoc{Offset: 9, Line: 2, Col: 1}, loc)

	require.Equal(t, "2:1", buf.LocAt(4).String())
}

func TestBufferFind(t *testing.T) {
	buf := NewBuffer([]byte("hello world hello"))

	require.Equal(t, 0, buf.Find([]byte("hello"), 0))
	require.Equal(t, 12, buf.Find([]byte("hello"), 1))
	require.Equal(t, -1, buf.Find([]byte("missing"), 0))
	require.Equal(t, -1, buf.Find([]byte("x"), buf.Len()))
	require.Equal(t, buf.Len(), buf.Find([]byte(""), buf.Len()))
}

func TestCountNewlinesBetween(t *testing.T) {
	data := []byte("a\nb\nc")
	require.Equal(t, 0, countNewlinesBetween(data, 0, 1))
	require.Equal(t, 1, countNewlinesBetween(data, 0, 2))
	require.Equal(t, 2, countNewlinesBetween(data, 0, 5))
}

func TestBufferSliceAndBytes(t *testing.T) {
	buf := NewBuffer([]byte("0123456789"))
	require.Equal(t, []byte("234"), buf.Slice(2, 5))
	require.Equal(t, []byte("0123456789"), buf.Bytes())
	require.Equal(t, 10, buf.Len())
}
