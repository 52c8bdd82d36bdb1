package fastqrec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitterBasic(t *testing.T) {
	buf := []byte("@r1 desc\nACGT\n+\nIIII\n@r2 desc\nGGGG\n+\nJJJJ\n")
	s := NewSplitter(buf)

	v, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "@r1 desc", string(v.ID))
	assert.Equal(t, "ACGT", string(v.Seq))
	assert.Equal(t, "IIII", string(v.Qual))

	v, ok, err = s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "@r2 desc", string(v.ID))
	assert.Equal(t, "GGGG", string(v.Seq))
	assert.Equal(t, "JJJJ", string(v.Qual))

	_, ok, err = s.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSplitterCRLF(t *testing.T) {
	buf := []byte("@r1\r\nACGT\r\n+\r\nIIII\r\n")
	s := NewSplitter(buf)
	v, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ACGT", string(v.Seq))
	assert.Equal(t, "IIII", string(v.Qual))
}

func TestSplitterViewsAliasBuffer(t *testing.T) {
	buf := []byte("@r1\nACGT\n+\nIIII\n")
	s := NewSplitter(buf)
	v, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	// The view must be a slice into buf, not a copy.
	buf[5] = 'T'
	assert.Equal(t, byte('T'), v.Seq[1])
}

func TestSplitterIncompleteRecord(t *testing.T) {
	buf := []byte("@r1\nACGT\n+\n")
	s := NewSplitter(buf)
	_, ok, err := s.Next()
	assert.False(t, ok)
	require.Error(t, err)
}

func TestSplitterBadIDLine(t *testing.T) {
	buf := []byte("r1\nACGT\n+\nIIII\n")
	s := NewSplitter(buf)
	_, ok, err := s.Next()
	assert.False(t, ok)
	require.Error(t, err)
}

func TestSplitterBadPlusLine(t *testing.T) {
	buf := []byte("@r1\nACGT\n-\nIIII\n")
	s := NewSplitter(buf)
	_, ok, err := s.Next()
	assert.False(t, ok)
	require.Error(t, err)
}

func TestSplitterLenMismatch(t *testing.T) {
	buf := []byte("@r1\nACGT\n+\nII\n")
	s := NewSplitter(buf)
	_, ok, err := s.Next()
	assert.False(t, ok)
	require.Error(t, err)
}

func TestSplitterMultiRecordScan(t *testing.T) {
	buf := []byte("@a\nAC\n+\nII\n@b\nGT\n+\nJJ\n@c\nTT\n+\nKK\n")
	s := NewSplitter(buf)
	var ids []string
	for {
		v, ok, err := s.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		ids = append(ids, string(v.ID))
	}
	assert.Equal(t, []string{"@a", "@b", "@c"}, ids)
}
