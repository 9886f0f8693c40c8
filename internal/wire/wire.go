package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const version byte = 1

var (
	ErrCorrupt         = errors.New("extjson/store: corrupt entry")
	ErrContentTypeSize = errors.New("extjson/store: content type longer than 255 bytes")
	magic4             = [...]byte{'X', 'J', 'S', 'N'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry: magic(4) | ver(1) | ctlen(1) | content type(ctlen) | vlen(u32 be) | payload(vlen)
func Encode(contentType string, payload []byte) ([]byte, error) {
	if len(contentType) > 0xFF {
		return nil, ErrContentTypeSize
	}

	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + len(contentType) + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(byte(len(contentType)))
	buf.WriteString(contentType)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes(), nil
}

// Decode validates the frame and returns slices into b. Trailing bytes are corruption.
func Decode(b []byte) (contentType string, payload []byte, err error) {
	const hdr = 4 + 1 + 1
	if len(b) < hdr || !hasMagic(b) || b[4] != version {
		return "", nil, ErrCorrupt
	}

	off := hdr
	ctlen := int(b[5])
	if ctlen > len(b)-off {
		return "", nil, ErrCorrupt
	}
	contentType = string(b[off : off+ctlen])
	off += ctlen

	// vlen
	if off+4 > len(b) {
		return "", nil, ErrCorrupt
	}
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off {
		return "", nil, ErrCorrupt
	}

	return contentType, b[off : off+vlen], nil
}
