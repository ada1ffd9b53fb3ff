package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Frame layout:
//   [0:2] magic
//   [2]   frame type
//   [3:7] total length including the trailing CRC, little-endian
//   [7]   flags
//   payload
//   CRC32 (IEEE) over bytes 2 .. end of payload

const (
	magic0 = 0x49 // 'I'
	magic1 = 0x53 // 'S'

	TypeData byte = 0x01

	// FlagCompressed marks a zstd-compressed payload.
	FlagCompressed byte = 0x01

	frameHeaderSize = 8
	frameCRCSize    = 4

	// MaxPayloadSize bounds a frame payload before compression and after
	// decompression.
	MaxPayloadSize = 16 << 20
)

var (
	ErrNotFrame       = errors.New("not a data frame")
	ErrLengthMismatch = errors.New("length mismatch")
	ErrChecksum       = errors.New("crc mismatch")
	ErrTooLarge       = errors.New("payload too large")
)

var (
	zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	})
	zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxPayloadSize))
	})
)

// EncodeFrame wraps payload in a checksummed data frame, compressing it
// first when flags has FlagCompressed.
func EncodeFrame(payload []byte, flags byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(payload))
	}
	if flags&FlagCompressed != 0 {
		enc, err := zstdEncoder()
		if err != nil {
			return nil, err
		}
		payload = enc.EncodeAll(payload, nil)
	}
	total := frameHeaderSize + len(payload) + frameCRCSize
	out := make([]byte, 0, total)
	out = append(out, magic0, magic1, TypeData)
	out = binary.LittleEndian.AppendUint32(out, uint32(total))
	out = append(out, flags)
	out = append(out, payload...)
	return binary.LittleEndian.AppendUint32(out, crc32.ChecksumIEEE(out[2:])), nil
}

// DecodeFrame verifies a data frame and returns its payload, decompressed
// if needed, and its flags. An uncompressed payload aliases data.
func DecodeFrame(data []byte) ([]byte, byte, error) {
	if len(data) < frameHeaderSize+frameCRCSize || data[0] != magic0 || data[1] != magic1 || data[2] != TypeData {
		return nil, 0, ErrNotFrame
	}
	if length := binary.LittleEndian.Uint32(data[3:]); int(length) != len(data) {
		return nil, 0, fmt.Errorf("%w: header says %d, got %d", ErrLengthMismatch, length, len(data))
	}
	flags := data[7]
	end := len(data) - frameCRCSize
	want := binary.LittleEndian.Uint32(data[end:])
	if crc32.ChecksumIEEE(data[2:end]) != want {
		return nil, 0, ErrChecksum
	}
	payload := data[frameHeaderSize:end]
	if flags&FlagCompressed != 0 {
		dec, err := zstdDecoder()
		if err != nil {
			return nil, 0, err
		}
		out, err := dec.DecodeAll(payload, nil)
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) {
			return nil, 0, fmt.Errorf("%w: %w", ErrTooLarge, err)
		}
		if err != nil {
			return nil, 0, fmt.Errorf("decompress: %w", err)
		}
		return out, flags, nil
	}
	return payload, flags, nil
}

// Marshal encodes val and wraps it in a frame. Unlike Encode, the result
// is not reused by later calls.
func (c *Codec) Marshal(val any, flags byte) ([]byte, error) {
	record, err := c.Encode(val)
	if err != nil {
		return nil, err
	}
	return EncodeFrame(record, flags)
}

// Unmarshal verifies a frame produced by Marshal and decodes it into out.
func (c *Codec) Unmarshal(data []byte, out any) error {
	record, _, err := DecodeFrame(data)
	if err != nil {
		return err
	}
	return c.Decode(record, out)
}
