package traceid

import (
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"math/rand/v2"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ID is an immutable 128-bit correlation identifier. Its canonical textual
// form is exactly 32 lowercase hexadecimal characters, matching the trace-id
// field of the W3C Trace Context specification. The zero value (Nil) is
// reserved to mean "absent" and never parses or gets generated.
//
// ID has value semantics: it is comparable with == and safe to copy.
type ID [16]byte

// Nil is the reserved all-zero identifier.
var Nil ID

// counter disambiguates identifiers generated within the same millisecond by
// the same process. It wraps on overflow and never blocks.
var counter atomic.Uint32

// instanceTag distinguishes processes and hosts generating identifiers
// concurrently. Computed once per process on first use.
var instanceTag = sync.OnceValue(func() uint16 {
	pid := uint32(os.Getpid())
	boot := uint32(time.Now().Unix())
	return uint16((pid ^ boot) & 0xffff)
})

// New generates a new identifier. The layout is approximately time-sortable:
// the high 64 bits are a 48-bit millisecond timestamp followed by the 16-bit
// per-process instance tag, the low 64 bits are a 32-bit atomic counter
// followed by 32 random bits. New never returns Nil.
func New() ID {
	for {
		ts := uint64(time.Now().UnixMilli()) & 0xffffffffffff
		hi := ts<<16 | uint64(instanceTag())
		lo := uint64(counter.Add(1))<<32 | uint64(rand.Uint32())

		var id ID
		binary.BigEndian.PutUint64(id[:8], hi)
		binary.BigEndian.PutUint64(id[8:], lo)
		if id != Nil {
			return id
		}
	}
}

// NewUUID generates an identifier from a random UUIDv4. It trades the
// time-sortable layout of New for compatibility with UUID-keyed systems;
// the canonical textual form is the same 32-character lowercase hex.
func NewUUID() ID {
	for {
		if id := ID(uuid.New()); id != Nil {
			return id
		}
	}
}

// Parse validates and decodes the canonical textual form. It fails with
// ErrInvalidLength, ErrInvalidCharacters or ErrAllZeros. Validation is a
// direct byte-range check; uppercase hex is rejected rather than normalized
// to keep this hot path a plain byte comparison.
func Parse(s string) (ID, error) {
	if len(s) != 32 {
		return Nil, ErrInvalidLength
	}

	var id ID
	for i := 0; i < 32; i += 2 {
		hi, ok1 := hexNibble(s[i])
		lo, ok2 := hexNibble(s[i+1])
		if !ok1 || !ok2 {
			return Nil, ErrInvalidCharacters
		}
		id[i/2] = hi<<4 | lo
	}
	if id == Nil {
		return Nil, ErrAllZeros
	}
	return id, nil
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

// FromBytes builds an ID from a 16-byte slice. It returns ErrInvalidLength
// for any other length and ErrAllZeros for sixteen zero bytes.
func FromBytes(b []byte) (ID, error) {
	if len(b) != 16 {
		return Nil, ErrInvalidLength
	}
	var id ID
	copy(id[:], b)
	if id == Nil {
		return Nil, ErrAllZeros
	}
	return id, nil
}

// Must returns id or panics if err is non-nil. Intended for tests and
// package-level variables with known-good input.
func Must(id ID, err error) ID {
	if err != nil {
		panic(err)
	}
	return id
}

// IsZero reports whether id is the reserved Nil value.
func (id ID) IsZero() bool {
	return id == Nil
}

// String renders the canonical 32-character lowercase-hex form. It is the
// inverse of Parse for every non-Nil identifier.
func (id ID) String() string {
	var buf [32]byte
	hex.Encode(buf[:], id[:])
	return string(buf[:])
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	buf := make([]byte, 32)
	hex.Encode(buf, id[:])
	return buf, nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse semantics.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// LogValue implements slog.LogValuer so identifiers render as their
// canonical text in structured logs.
func (id ID) LogValue() slog.Value {
	return slog.StringValue(id.String())
}
