package ie

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// headerLen is the size of an IE's type+length header, in octets.
const headerLen = 4

// ErrTooShort is returned when a buffer ends before a declared length is
// satisfied.
var ErrTooShort = errors.New("ie: buffer too short")

// IE is a single PFCP Information Element. A leaf IE carries its bit-packed
// value in Payload; a grouped IE (IsGrouped(Type) == true) carries nested
// IEs in Child and leaves Payload nil. Field accessors (CauseValue,
// FSEIDValue, ...) parse Payload on demand rather than caching typed
// structs; a PFCP datagram tops out at 65535 bytes, so recomputing is cheap
// and there is no cached length to keep consistent.
type IE struct {
	Type    Type
	Payload []byte
	Child   []*IE
}

// NewLeaf builds a leaf IE directly from its encoded payload bytes.
func NewLeaf(t Type, payload []byte) *IE {
	return &IE{Type: t, Payload: payload}
}

// NewGrouped builds a grouped IE from already-constructed children.
func NewGrouped(t Type, children ...*IE) *IE {
	return &IE{Type: t, Child: children}
}

// SetChildren replaces a grouped IE's children in place. A grouped IE's
// packed length is the sum of its children's packed lengths; because
// MarshalLen recomputes that sum on every call there is no separate
// "set length" step to run after mutating Child.
func (i *IE) SetChildren(children ...*IE) {
	i.Child = children
}

// Find returns the first direct child of a grouped IE with the given type,
// or nil if absent. A nil return is the presence indicator: an IE is
// present exactly when the enclosing message or group actually wrote it.
func (i *IE) Find(t Type) *IE {
	for _, c := range i.Child {
		if c.Type == t {
			return c
		}
	}
	return nil
}

// FindAll returns every direct child of the given type, in order.
func (i *IE) FindAll(t Type) []*IE {
	var out []*IE
	for _, c := range i.Child {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// MarshalLen returns the total wire length of the IE, header included.
func (i *IE) MarshalLen() int {
	if i == nil {
		return 0
	}
	if len(i.Child) > 0 || IsGrouped(i.Type) {
		n := headerLen
		for _, c := range i.Child {
			n += c.MarshalLen()
		}
		return n
	}
	return headerLen + len(i.Payload)
}

// MarshalTo writes the IE's wire representation into b, which must be at
// least MarshalLen() bytes.
func (i *IE) MarshalTo(b []byte) error {
	total := i.MarshalLen()
	if len(b) < total {
		return fmt.Errorf("ie: buffer too short for type %s: need %d, have %d", i.Type, total, len(b))
	}
	binary.BigEndian.PutUint16(b[0:2], uint16(i.Type))
	binary.BigEndian.PutUint16(b[2:4], uint16(total-headerLen))

	if len(i.Child) > 0 || (IsGrouped(i.Type) && i.Payload == nil) {
		offset := headerLen
		for _, c := range i.Child {
			n := c.MarshalLen()
			if err := c.MarshalTo(b[offset : offset+n]); err != nil {
				return err
			}
			offset += n
		}
		return nil
	}
	copy(b[headerLen:], i.Payload)
	return nil
}

// Marshal allocates a buffer and encodes the IE into it.
func (i *IE) Marshal() ([]byte, error) {
	b := make([]byte, i.MarshalLen())
	if err := i.MarshalTo(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Parse decodes a single IE (header + value) from the front of b and
// returns it along with the number of bytes consumed.
func Parse(b []byte) (*IE, int, error) {
	if len(b) < headerLen {
		return nil, 0, ErrTooShort
	}
	t := Type(binary.BigEndian.Uint16(b[0:2]))
	length := int(binary.BigEndian.Uint16(b[2:4]))
	if len(b) < headerLen+length {
		return nil, 0, fmt.Errorf("ie: %w: type %s declares length %d, have %d", ErrTooShort, t, length, len(b)-headerLen)
	}
	value := b[headerLen : headerLen+length]
	out := &IE{Type: t}
	if IsGrouped(t) {
		children, err := ParseAll(value)
		if err != nil {
			return nil, 0, fmt.Errorf("ie: decoding grouped %s: %w", t, err)
		}
		out.Child = children
	} else {
		out.Payload = append([]byte(nil), value...)
	}
	return out, headerLen + length, nil
}

// ParseAll decodes a contiguous run of sibling IEs, such as a grouped IE's
// value or a message's entire IE list, until b is exhausted.
func ParseAll(b []byte) ([]*IE, error) {
	var out []*IE
	for len(b) > 0 {
		item, n, err := Parse(b)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
		b = b[n:]
	}
	return out, nil
}

// Present reports whether a possibly-nil IE pointer is present.
func Present(i *IE) bool { return i != nil }
