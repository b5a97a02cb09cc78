package wire

import "bytes"

// FieldType annotates how a field's raw bytes are interpreted. The zero
// value, TypeNone, means "use the mask/length rules without a declared
// scalar type" — most boolean flag fields never set one.
type FieldType int

const (
	TypeNone FieldType = iota
	TypeBool
	TypeByte
	TypeShort
	TypeInt
	TypeString
)

func (t FieldType) size() int {
	switch t {
	case TypeBool, TypeByte:
		return 1
	case TypeShort:
		return 2
	case TypeInt:
		return 4
	default:
		return 0
	}
}

// Entry is one (byte offset, bit mask) pair within a field. A field with
// more than one entry and every mask equal to 0xFF is a multi-byte
// little-endian integer split across those byte offsets.
type Entry struct {
	Byte uint
	Mask byte
}

// Field describes one named, packable/extractable value within a Template.
type Field struct {
	Name    string
	Entries []Entry
	Length  int // optional fixed length, for Buffer/string fields
	Type    FieldType
}

func (f Field) isMultiByteInt() bool {
	if len(f.Entries) < 2 {
		return false
	}
	for _, e := range f.Entries {
		if e.Mask != 0xFF {
			return false
		}
	}
	return true
}

// Template is a declarative record for one message kind: its message-id
// bytes, the fixed default bytes of its body, and the named fields that can
// be read from or written into that body. Instances are static constants —
// see messages.go.
type Template struct {
	Name    string
	MsgID   []byte
	Body    []byte // fixed template defaults, post message-id
	TypeID  byte   // Body[0], used by IsMessageType
	Fields  map[string]Field
}

// PackRequest allocates a full request frame (header || msgID || body) for
// tpl and writes props into it per the field rules in spec section 4.C.
// Unknown property names are ignored.
func (t Template) PackRequest(props map[string]any) []byte {
	out := make([]byte, 1+len(t.MsgID)+len(t.Body))
	out[0] = HeaderRequest
	copy(out[1:], t.MsgID)
	copy(out[1+len(t.MsgID):], t.Body)

	headerOff := 1 + len(t.MsgID)
	for name, value := range props {
		f, ok := t.Fields[name]
		if !ok {
			continue
		}
		writeField(out, headerOff, f, value)
	}
	return out
}

func writeField(out []byte, headerOff int, f Field, value any) {
	if f.isMultiByteInt() {
		n := toUint(value)
		for _, e := range f.Entries {
			out[headerOff+int(e.Byte)] = byte(n)
			n >>= 8
		}
		return
	}

	for _, e := range f.Entries {
		off := headerOff + int(e.Byte)

		if buf, ok := value.([]byte); ok {
			length := f.Length
			if length == 0 || length > len(buf) {
				length = len(buf)
			}
			copy(out[off:off+length], buf[:length])
			continue
		}

		if f.Type == TypeString {
			s, _ := value.(string)
			writeLengthPrefixedString(out, off, f.Length, s)
			continue
		}

		if f.Length > 0 && f.Type == TypeNone {
			if s, ok := value.(string); ok {
				writeFixedString(out, off, f.Length, s)
				continue
			}
		}

		if e.Mask == 0xFF {
			n := toUint(value)
			size := f.Type.size()
			if size == 0 {
				size = f.Length
			}
			if size == 0 {
				size = 2
			}
			writeLE(out, off, size, n)
			continue
		}

		// boolean flag field
		if toBool(value) {
			out[off] |= e.Mask
		} else {
			out[off] &^= e.Mask
		}
	}
}

func writeLE(out []byte, off, size int, n uint64) {
	for i := 0; i < size; i++ {
		out[off+i] = byte(n)
		n >>= 8
	}
}

func writeLengthPrefixedString(out []byte, off, length int, s string) {
	n := len(s)
	if length > 0 && n > length-1 {
		n = length - 1
	}
	out[off] = byte(n)
	copy(out[off+1:], s[:n])
}

func writeFixedString(out []byte, off, length int, s string) {
	n := len(s)
	if n > length {
		n = length
	}
	copy(out[off:off+length], s[:n])
}

func toUint(v any) uint64 {
	switch x := v.(type) {
	case uint64:
		return x
	case uint32:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint8:
		return uint64(x)
	case int:
		return uint64(x)
	case int64:
		return uint64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func toBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	default:
		return toUint(v) != 0
	}
}

// GetField extracts a single named field's value from a response body (the
// buffer with header and message id already stripped, per spec section
// 4.C). It returns false if the field's offsets fall outside body — short
// status frames are legal and simply omit trailing fields.
func (t Template) GetField(body []byte, name string) (any, bool) {
	f, ok := t.Fields[name]
	if !ok {
		return nil, false
	}
	return getField(body, f)
}

func getField(body []byte, f Field) (any, bool) {
	for _, e := range f.Entries {
		if int(e.Byte) >= len(body) {
			return nil, false
		}
	}

	if f.isMultiByteInt() {
		var n uint64
		for i := len(f.Entries) - 1; i >= 0; i-- {
			n = n<<8 | uint64(body[f.Entries[i].Byte])
		}
		return n, true
	}

	e := f.Entries[0]
	off := int(e.Byte)

	if f.Type == TypeString {
		length := int(body[off])
		end := off + 1 + length
		if end > len(body) {
			return nil, false
		}
		return trimNUL(body[off+1 : end]), true
	}

	switch f.Type {
	case TypeBool:
		return body[off] != 0, true
	case TypeByte:
		return uint64(body[off]), true
	case TypeShort:
		if off+2 > len(body) {
			return nil, false
		}
		return uint64(body[off]) | uint64(body[off+1])<<8, true
	case TypeInt:
		if off+4 > len(body) {
			return nil, false
		}
		var n uint64
		for i := 3; i >= 0; i-- {
			n = n<<8 | uint64(body[off+i])
		}
		return n, true
	}

	if e.Mask == 0xFF {
		if f.Length > 1 {
			if off+f.Length > len(body) {
				return nil, false
			}
			var n uint64
			for i := f.Length - 1; i >= 0; i-- {
				n = n<<8 | uint64(body[off+i])
			}
			return n, true
		}
		return uint64(body[off]), true
	}

	return body[off]&e.Mask != 0, true
}

func trimNUL(b []byte) string {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return string(b)
	}
	return string(b[:i])
}

// GetAllProperties runs GetField for every named field in t, skipping
// fields whose offsets fall outside body.
func (t Template) GetAllProperties(body []byte) map[string]any {
	out := make(map[string]any, len(t.Fields))
	for name, f := range t.Fields {
		if v, ok := getField(body, f); ok {
			out[name] = v
		}
	}
	return out
}

// IsMessageType reports whether resp's message id matches t.MsgID and its
// Body[0] (the "typeId") matches t.TypeID. offset lets callers check a type
// id embedded deeper in a batched/compound response.
func (t Template) IsMessageType(resp Frame, offset int) bool {
	if len(resp.MsgID) != len(t.MsgID) {
		return false
	}
	for i := range t.MsgID {
		if resp.MsgID[i] != t.MsgID[i] {
			return false
		}
	}
	if offset >= len(resp.Body) {
		return false
	}
	return resp.Body[offset] == t.TypeID
}
