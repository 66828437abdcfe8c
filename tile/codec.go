package tile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// Codec identifies the compression applied to an encoded Tile payload
type Codec uint8

const (
	// NoCompression stores cell data as-is
	NoCompression Codec = iota
	// LZ4 compresses cell data with the lz4 frame format
	LZ4
	// Zstd compresses cell data with zstandard
	Zstd
)

var codecNames = map[Codec]string{
	NoCompression: "none",
	LZ4:           "lz4",
	Zstd:          "zstd",
}

// String returns the name of this Codec
func (c Codec) String() string {
	if n, ok := codecNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Codec(%d)", uint8(c))
}

// ParseCodec parses a Codec from its name
func ParseCodec(name string) (Codec, error) {
	for c, n := range codecNames {
		if n == name {
			return c, nil
		}
	}
	return NoCompression, fmt.Errorf("Unknown tile codec %q", name)
}

const (
	codecMagic   = "RFTL"
	codecVersion = 1
)

var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdErr     error
)

func zstdWriter() (*zstd.Encoder, error) {
	zstdOnce.Do(func() {
		zstdEncoder, zstdErr = zstd.NewWriter(nil)
	})
	return zstdEncoder, zstdErr
}

// Encode serializes a Tile into a self-describing byte buffer: a header carrying the
// codec, cell type and dimensions, followed by the (possibly compressed) cell buffer and mask
func Encode(t *Tile, codec Codec) ([]byte, error) {
	payload := make([]byte, 0, len(t.data)+len(t.mask))
	payload = append(payload, t.data...)
	payload = append(payload, t.mask...)

	var body []byte
	switch codec {
	case NoCompression:
		body = payload
	case LZ4:
		buff := new(bytes.Buffer)
		w := lz4.NewWriter(buff)
		if _, err := w.Write(payload); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		body = buff.Bytes()
	case Zstd:
		enc, err := zstdWriter()
		if err != nil {
			return nil, err
		}
		body = enc.EncodeAll(payload, nil)
	default:
		return nil, fmt.Errorf("Unknown tile codec %d", codec)
	}

	ctName := t.cellType.String()
	buff := new(bytes.Buffer)
	buff.WriteString(codecMagic)
	buff.WriteByte(codecVersion)
	buff.WriteByte(byte(codec))
	header := make([]byte, 2)
	binary.LittleEndian.PutUint16(header, uint16(len(ctName)))
	buff.Write(header)
	buff.WriteString(ctName)
	dims := make([]byte, 8)
	binary.LittleEndian.PutUint32(dims, uint32(t.cols))
	binary.LittleEndian.PutUint32(dims[4:], uint32(t.rows))
	buff.Write(dims)
	buff.Write(body)
	return buff.Bytes(), nil
}

// Decode deserializes a Tile produced by Encode
func Decode(buf []byte) (*Tile, error) {
	r := bytes.NewReader(buf)
	magic := make([]byte, len(codecMagic))
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != codecMagic {
		return nil, fmt.Errorf("buffer does not contain an encoded tile")
	}
	version, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != codecVersion {
		return nil, fmt.Errorf("unsupported encoded tile version %d", version)
	}
	codecByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	nameLen := make([]byte, 2)
	if _, err := io.ReadFull(r, nameLen); err != nil {
		return nil, err
	}
	name := make([]byte, binary.LittleEndian.Uint16(nameLen))
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, err
	}
	ct, err := ParseCellType(string(name))
	if err != nil {
		return nil, err
	}
	dims := make([]byte, 8)
	if _, err := io.ReadFull(r, dims); err != nil {
		return nil, err
	}
	cols := int(binary.LittleEndian.Uint32(dims))
	rows := int(binary.LittleEndian.Uint32(dims[4:]))
	if err := ValidateDimensions(ct, cols, rows); err != nil {
		return nil, err
	}
	dataLen := cols * rows * ct.Kind.Size()
	want := dataLen
	if ct.IsMasked() {
		want += maskLen(cols * rows)
	}
	body := buf[len(buf)-r.Len():]

	var payload []byte
	switch Codec(codecByte) {
	case NoCompression:
		if len(body) != want {
			return nil, fmt.Errorf("expected %d bytes of tile data, got %d", want, len(body))
		}
		payload = make([]byte, len(body))
		copy(payload, body)
	case LZ4:
		payload, err = readPayload(lz4.NewReader(bytes.NewReader(body)), want)
		if err != nil {
			return nil, err
		}
	case Zstd:
		dec, err := zstd.NewReader(bytes.NewReader(body), zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		payload, err = readPayload(dec, want)
		dec.Close()
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("Unknown tile codec %d", codecByte)
	}
	return fromBuffers(ct, cols, rows, payload[:dataLen], payload[dataLen:])
}

// readPayload reads exactly want decompressed bytes from r, never buffering more than one extra byte
func readPayload(r io.Reader, want int) ([]byte, error) {
	payload, err := io.ReadAll(io.LimitReader(r, int64(want)+1))
	if err != nil {
		return nil, fmt.Errorf("unable to decompress tile data: %w", err)
	}
	if len(payload) != want {
		return nil, fmt.Errorf("expected %d bytes of tile data, got %d", want, len(payload))
	}
	return payload, nil
}
