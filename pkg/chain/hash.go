package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Hash returns the SHA-256 digest of the canonical encoding of the block
// fields. The encoding is a compact JSON object with lexicographically
// ordered keys:
//
//	{"data":"...","id":1,"nonce":7,"previous_hash":"...","timestamp":1650000000}
//
// Every node must produce byte-identical input here as peers re-derive the
// hash when validating.
func Hash(id uint64, previousHash, data string, timestamp int64, nonce uint64) [32]byte {
	return newPreimage(id, previousHash, data, timestamp).sum(nonce)
}

// HashHex is Hash encoded as lowercase hex
func HashHex(id uint64, previousHash, data string, timestamp int64, nonce uint64) string {
	h := Hash(id, previousHash, data, timestamp, nonce)
	return hex.EncodeToString(h[:])
}

// DifficultySatisfied reports whether the MSB-first bit string of digest
// starts with at least bits zero bits.
func DifficultySatisfied(digest []byte, bits uint) bool {
	if bits > uint(len(digest))*8 {
		return false
	}

	full := bits / 8
	for i := uint(0); i < full; i++ {
		if digest[i] != 0 {
			return false
		}
	}

	rem := bits % 8
	if rem == 0 {
		return true
	}

	return digest[full]>>(8-rem) == 0
}

// BitString renders digest as its full binary representation, 8 bits per byte.
func BitString(digest []byte) string {
	var sb strings.Builder
	sb.Grow(len(digest) * 8)

	for _, b := range digest {
		s := strconv.FormatUint(uint64(b), 2)
		sb.WriteString(strings.Repeat("0", 8-len(s)))
		sb.WriteString(s)
	}

	return sb.String()
}

// preimage holds the encoded block fields around the nonce so the miner only
// re-encodes the nonce on each attempt.
type preimage struct {
	head []byte
	tail []byte
	buf  []byte
}

func newPreimage(id uint64, previousHash, data string, timestamp int64) *preimage {
	p := &preimage{}

	p.head = append(p.head, `{"data":`...)
	p.head = append(p.head, jsonString(data)...)
	p.head = append(p.head, `,"id":`...)
	p.head = strconv.AppendUint(p.head, id, 10)
	p.head = append(p.head, `,"nonce":`...)

	p.tail = append(p.tail, `,"previous_hash":`...)
	p.tail = append(p.tail, jsonString(previousHash)...)
	p.tail = append(p.tail, `,"timestamp":`...)
	p.tail = strconv.AppendInt(p.tail, timestamp, 10)
	p.tail = append(p.tail, '}')

	p.buf = make([]byte, 0, len(p.head)+len(p.tail)+20)

	return p
}

func (p *preimage) sum(nonce uint64) [32]byte {
	p.buf = append(p.buf[:0], p.head...)
	p.buf = strconv.AppendUint(p.buf, nonce, 10)
	p.buf = append(p.buf, p.tail...)

	return sha256.Sum256(p.buf)
}

const hexDigits = "0123456789abcdef"

// jsonString quotes s the way the preimage requires: only the quote, the
// backslash and control characters are escaped. \b \f \n \r \t use their
// short forms, other control characters become \u00XX and everything else,
// U+2028 and U+2029 included, is written raw. Invalid UTF-8 bytes are each
// written as U+FFFD.
func jsonString(s string) []byte {
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, '"')

	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				buf = utf8.AppendRune(buf, utf8.RuneError)
			} else {
				buf = append(buf, s[i:i+size]...)
			}
			i += size
			continue
		}

		switch c {
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		default:
			if c < 0x20 {
				buf = append(buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
			} else {
				buf = append(buf, c)
			}
		}
		i++
	}

	return append(buf, '"')
}

// ValidData replaces every byte of s that is not part of valid UTF-8 with
// U+FFFD, matching what peers see after decoding the block from the wire.
func ValidData(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 8)

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
		} else {
			sb.WriteString(s[i : i+size])
		}
		i += size
	}

	return sb.String()
}
