// Package compression implements the OpenEXR ZIP and ZIPS block codecs.
//
// A ZIP block is produced in three steps: the raw bytes are reordered so
// that the two halves of every 16-bit word are grouped (Interleave), each
// byte is replaced by its biased difference from the previous one
// (PredictorEncode), and the result is deflated with zlib.
package compression

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// ZIP compression errors
var (
	ErrZIPCorrupted = errors.New("compression: corrupted ZIP data")
)

// CompressionLevel is a zlib compression level from -2 to 9.
type CompressionLevel int

// Standard compression levels
const (
	CompressionLevelHuffmanOnly CompressionLevel = -2 // Huffman-only (klauspost)
	CompressionLevelDefault     CompressionLevel = -1 // Default (level 6)
	CompressionLevelNone        CompressionLevel = 0  // Store
	CompressionLevelBestSpeed   CompressionLevel = 1
	CompressionLevelBestSize    CompressionLevel = 9
)

type zlibWriterPoolItem struct {
	writer *zlib.Writer
	buf    *bytes.Buffer
}

var zlibWriterPool = sync.Pool{
	New: func() any {
		buf := new(bytes.Buffer)
		w, _ := zlib.NewWriterLevel(buf, zlib.DefaultCompression)
		return &zlibWriterPoolItem{writer: w, buf: buf}
	},
}

// EncodeZIPBlock applies the full OpenEXR ZIP pipeline to an uncompressed
// chunk at the default level.
func EncodeZIPBlock(raw []byte) ([]byte, error) {
	return EncodeZIPBlockLevel(raw, CompressionLevelDefault)
}

// EncodeZIPBlockLevel is EncodeZIPBlock with an explicit zlib level.
func EncodeZIPBlockLevel(raw []byte, level CompressionLevel) ([]byte, error) {
	tmp := Interleave(raw)
	PredictorEncode(tmp)
	return ZIPCompressLevel(tmp, level)
}

// DecodeZIPBlock reverses EncodeZIPBlock. size is the uncompressed size.
func DecodeZIPBlock(src []byte, size int) ([]byte, error) {
	tmp, err := ZIPDecompress(src, size)
	if err != nil {
		return nil, err
	}
	PredictorDecode(tmp)
	return Deinterleave(tmp), nil
}

// ZIPCompress deflates src with zlib at the default level.
// It does not reorder or predict; see EncodeZIPBlock.
func ZIPCompress(src []byte) ([]byte, error) {
	return ZIPCompressLevel(src, CompressionLevelDefault)
}

// ZIPCompressLevel deflates src with zlib at the given level.
func ZIPCompressLevel(src []byte, level CompressionLevel) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}

	if level == CompressionLevelDefault {
		item := zlibWriterPool.Get().(*zlibWriterPoolItem)
		defer zlibWriterPool.Put(item)
		item.buf.Reset()
		item.writer.Reset(item.buf)

		if _, err := item.writer.Write(src); err != nil {
			return nil, err
		}
		if err := item.writer.Close(); err != nil {
			return nil, err
		}
		return bytes.Clone(item.buf.Bytes()), nil
	}

	buf := new(bytes.Buffer)
	w, err := zlib.NewWriterLevel(buf, int(level))
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(src); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ZIPDecompress inflates src, which must expand to exactly expectedSize bytes.
func ZIPDecompress(src []byte, expectedSize int) ([]byte, error) {
	if len(src) == 0 {
		if expectedSize != 0 {
			return nil, ErrZIPCorrupted
		}
		return nil, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, ErrZIPCorrupted
	}
	defer r.Close()

	dst := make([]byte, expectedSize)
	if _, err := io.ReadFull(r, dst); err != nil {
		return nil, ErrZIPCorrupted
	}
	// Trailing data means the block is larger than the caller expects.
	var extra [1]byte
	if n, _ := r.Read(extra[:]); n != 0 {
		return nil, ErrZIPCorrupted
	}
	return dst, nil
}
