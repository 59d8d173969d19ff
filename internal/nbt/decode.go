package nbt

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

// Decoder performs recursive descent decoding of a single NBT buffer.
// A Decoder exclusively owns its input buffer for the duration of a parse;
// the Tag tree it produces copies every string and array out of that buffer,
// so no tag retains a reference to it afterward.
type Decoder struct {
	buf   []byte
	r     *bytes.Reader
	depth int
}

// NewDecoder wraps buf for decoding. The Decoder keeps buf for Pos and Buf,
// but no tag returned by Decode references it.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf, r: bytes.NewReader(buf)}
}

// Pos returns the cursor's current byte offset into the original buffer.
// Used by the diagnostic reporter to locate a decode failure.
func (d *Decoder) Pos() int {
	return len(d.buf) - d.r.Len()
}

// Buf returns the buffer this Decoder was constructed with.
func (d *Decoder) Buf() []byte {
	return d.buf
}

// Decode reads one named tag from the front of the buffer. Per the format,
// the result is a single root tag (a Compound in every real chunk, but an
// End is a valid empty result at the top level too).
func (d *Decoder) Decode() (*Tag, error) {
	tag, err := d.consume()
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (d *Decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, errEndOfBytes()
	}
	return b, nil
}

func (d *Decoder) readN(n int) ([]byte, error) {
	if n < 0 {
		return nil, errNegativeLength(int32(n))
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, errEndOfBytes()
	}
	return buf, nil
}

func (d *Decoder) readUint16() (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return 0, errTruncatedPrimitive()
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func (d *Decoder) readInt32() (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return 0, errTruncatedPrimitive()
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}

func (d *Decoder) readInt64() (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return 0, errTruncatedPrimitive()
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

func (d *Decoder) readFloat32() (float32, error) {
	bits, err := d.readInt32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(bits)), nil
}

func (d *Decoder) readFloat64() (float64, error) {
	bits, err := d.readInt64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(bits)), nil
}

// readString reads a u16-length-prefixed byte string. A declared length
// longer than what remains in the buffer is EndOfBytes, never a partial read.
func (d *Decoder) readString() ([]byte, error) {
	n, err := d.readUint16()
	if err != nil {
		return nil, errTruncatedString()
	}
	if int(n) > d.r.Len() {
		return nil, errEndOfBytes()
	}
	s, err := d.readN(int(n))
	if err != nil {
		return nil, errTruncatedString()
	}
	return s, nil
}

// checkArrayLength validates a signed 32-bit array/string length field: it
// must be non-negative and must not claim more bytes than remain.
func (d *Decoder) checkArrayLength(n int32, elemSize int) error {
	if n < 0 {
		return errNegativeLength(n)
	}
	if int64(n)*int64(elemSize) > int64(d.r.Len()) {
		return errEndOfBytes()
	}
	return nil
}

func (d *Decoder) readByteArray() (PByteArray, error) {
	n, err := d.readInt32()
	if err != nil {
		return nil, err
	}
	if err := d.checkArrayLength(n, 1); err != nil {
		return nil, err
	}
	b, err := d.readN(int(n))
	if err != nil {
		return nil, err
	}
	return PByteArray(b), nil
}

func (d *Decoder) readIntArray() (PIntArray, error) {
	n, err := d.readInt32()
	if err != nil {
		return nil, err
	}
	if err := d.checkArrayLength(n, 4); err != nil {
		return nil, err
	}
	out := make(PIntArray, n)
	for i := range out {
		v, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d *Decoder) readLongArray() (PLongArray, error) {
	n, err := d.readInt32()
	if err != nil {
		return nil, err
	}
	if err := d.checkArrayLength(n, 8); err != nil {
		return nil, err
	}
	out := make(PLongArray, n)
	for i := range out {
		v, err := d.readInt64()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// readListPayload reads a single bare (unnamed) payload of the given element
// type, for use as one item inside a List. Element-id validity is checked
// here, lazily, once per element actually read — so a zero-length list never
// inspects its element-id.
func (d *Decoder) readListPayload(elemType byte) (Payload, error) {
	switch elemType {
	case IDByte:
		b, err := d.readByte()
		return PByte(int8(b)), err
	case IDShort:
		v, err := d.readUint16()
		return PShort(int16(v)), err
	case IDInt:
		v, err := d.readInt32()
		return PInt(v), err
	case IDLong:
		v, err := d.readInt64()
		return PLong(v), err
	case IDFloat:
		v, err := d.readFloat32()
		return PFloat(v), err
	case IDDouble:
		v, err := d.readFloat64()
		return PDouble(v), err
	case IDByteArray:
		return d.readByteArray()
	case IDString:
		s, err := d.readString()
		return PString(s), err
	case IDList:
		return d.readList()
	case IDCompound:
		return d.readCompound()
	case IDIntArray:
		return d.readIntArray()
	case IDLongArray:
		return d.readLongArray()
	default:
		return nil, errInvalidListType(elemType)
	}
}

func (d *Decoder) enter() error {
	d.depth++
	if d.depth > maxNesting {
		n := d.depth
		d.depth--
		return errExceedsNesting(int64(n))
	}
	return nil
}

func (d *Decoder) leave() {
	d.depth--
}

func (d *Decoder) readList() (PList, error) {
	if err := d.enter(); err != nil {
		return PList{}, err
	}
	defer d.leave()

	elemType, err := d.readByte()
	if err != nil {
		return PList{}, err
	}
	length, err := d.readInt32()
	if err != nil {
		return PList{}, err
	}
	if length < 0 {
		return PList{}, errNegativeLength(length)
	}
	if length > maxNesting {
		return PList{}, errExceedsNesting(int64(length))
	}

	items := make([]Payload, 0, length)
	for i := int32(0); i < length; i++ {
		item, err := d.readListPayload(elemType)
		if err != nil {
			return PList{}, err
		}
		items = append(items, item)
	}
	return PList{ElemType: elemType, Items: items}, nil
}

func (d *Decoder) readCompound() (PCompound, error) {
	if err := d.enter(); err != nil {
		return PCompound{}, err
	}
	defer d.leave()

	var tags []Tag
	for {
		tag, err := d.consume()
		if err != nil {
			return PCompound{}, err
		}
		if tag.Type == IDEnd {
			break
		}
		tags = append(tags, *tag)
		if len(tags) > maxNesting {
			return PCompound{}, errExceedsNesting(int64(len(tags)))
		}
	}
	return PCompound{Tags: tags}, nil
}

// consume reads one full named tag: its type id, its name (if any), and its
// payload.
func (d *Decoder) consume() (*Tag, error) {
	id, err := d.readByte()
	if err != nil {
		return nil, err
	}

	if id == IDEnd {
		return &Tag{Type: IDEnd, Payload: PEnd{}}, nil
	}
	if id > IDLongArray {
		return nil, errInvalidType()
	}

	name, err := d.readString()
	if err != nil {
		return nil, err
	}

	var payload Payload
	switch id {
	case IDByte:
		b, e := d.readByte()
		payload, err = PByte(int8(b)), e
	case IDShort:
		v, e := d.readUint16()
		payload, err = PShort(int16(v)), e
	case IDInt:
		v, e := d.readInt32()
		payload, err = PInt(v), e
	case IDLong:
		v, e := d.readInt64()
		payload, err = PLong(v), e
	case IDFloat:
		v, e := d.readFloat32()
		payload, err = PFloat(v), e
	case IDDouble:
		v, e := d.readFloat64()
		payload, err = PDouble(v), e
	case IDByteArray:
		payload, err = d.readByteArray()
	case IDString:
		s, e := d.readString()
		payload, err = PString(s), e
	case IDList:
		payload, err = d.readList()
	case IDCompound:
		payload, err = d.readCompound()
	case IDIntArray:
		payload, err = d.readIntArray()
	case IDLongArray:
		payload, err = d.readLongArray()
	}
	if err != nil {
		return nil, err
	}

	return &Tag{Type: id, Name: name, Payload: payload}, nil
}
