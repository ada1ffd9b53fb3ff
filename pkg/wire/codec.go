// Package wire is a compact binary codec for flat structs whose text
// fields may be inlinestr.Str. A Str field is written exactly like a
// string field holding the same text, so the two are interchangeable on
// the wire.
package wire

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/rawbytedev/inlinestr"
	"github.com/rawbytedev/inlinestr/internal/common"
)

var (
	ErrNotStruct    = errors.New("expected struct")
	ErrNotStructPtr = errors.New("expected pointer to struct")
	ErrUnsupported  = errors.New("unsupported type")
	ErrShortBuffer  = errors.New("short buffer")
	ErrCorrupt      = errors.New("corrupt record")
)

type Options struct {
	// UnsafeStrings makes decoded string fields alias the input instead of
	// copying it; the caller must keep the input alive and unmodified.
	// Str fields are always copied.
	UnsafeStrings bool
}

// Layout:
//   varint N            number of encoded fields
//   varint offset...    body offset of each variable-size field
//   body                fields in declaration order
//
// Fixed kinds are little-endian. string, []byte and Str are a varint
// length followed by the bytes. Slices are a varint count followed by the
// elements.

type fieldKind uint8

const (
	kindFixed fieldKind = iota
	kindString
	kindBytes
	kindStr
	kindFixedList
	kindStringList
	kindStrList
)

type fieldInfo struct {
	idx  int
	kind fieldKind
	elem reflect.Kind // value kind for kindFixed, element kind for lists
}

func (f fieldInfo) isVar() bool { return f.kind != kindFixed }

type fieldPlan struct {
	fields []fieldInfo
}

var strType = reflect.TypeFor[inlinestr.Str]()

// Codec encodes and decodes structs. Field plans are cached per type and
// shared safely, but the encode buffers are not: use one Codec per
// goroutine.
type Codec struct {
	Opts Options
	mu   sync.RWMutex
	plan map[reflect.Type]*fieldPlan
	buf  []byte
	body []byte
}

func NewCodec(opts Options) *Codec {
	return &Codec{
		Opts: opts,
		plan: make(map[reflect.Type]*fieldPlan),
	}
}

func (c *Codec) getPlan(t reflect.Type) (*fieldPlan, error) {
	c.mu.RLock()
	if pl, ok := c.plan[t]; ok {
		c.mu.RUnlock()
		return pl, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if pl, ok := c.plan[t]; ok {
		return pl, nil
	}
	pl, err := buildPlan(t)
	if err != nil {
		return nil, err
	}
	if c.plan == nil {
		c.plan = make(map[reflect.Type]*fieldPlan)
	}
	c.plan[t] = pl
	return pl, nil
}

func buildPlan(t reflect.Type) (*fieldPlan, error) {
	pl := &fieldPlan{}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue // skip unexported
		}
		fi, err := classify(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s.%s of type %s", err, t.Name(), sf.Name, sf.Type)
		}
		fi.idx = i
		pl.fields = append(pl.fields, fi)
	}
	return pl, nil
}

func classify(t reflect.Type) (fieldInfo, error) {
	k := t.Kind()
	switch {
	case t == strType:
		return fieldInfo{kind: kindStr}, nil
	case common.IsFixedKind(k):
		return fieldInfo{kind: kindFixed, elem: k}, nil
	case k == reflect.String:
		return fieldInfo{kind: kindString}, nil
	case k == reflect.Slice:
		e := t.Elem()
		switch {
		case e == strType:
			return fieldInfo{kind: kindStrList}, nil
		case e.Kind() == reflect.Uint8:
			return fieldInfo{kind: kindBytes}, nil
		case common.IsFixedKind(e.Kind()):
			return fieldInfo{kind: kindFixedList, elem: e.Kind()}, nil
		case e.Kind() == reflect.String:
			return fieldInfo{kind: kindStringList}, nil
		}
	}
	return fieldInfo{}, ErrUnsupported
}

// Encode serializes val, a struct or pointer to struct. The returned slice
// is reused by the next call to Encode.
func (c *Codec) Encode(val any) ([]byte, error) {
	v := reflect.ValueOf(val)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, ErrNotStruct
	}
	pl, err := c.getPlan(v.Type())
	if err != nil {
		return nil, err
	}

	c.buf = c.buf[:0]
	c.body = c.body[:0]
	c.buf = common.WriteVarUint(c.buf, uint64(len(pl.fields)))
	for _, f := range pl.fields {
		fv := v.Field(f.idx)
		if f.isVar() {
			c.buf = common.WriteVarUint(c.buf, uint64(len(c.body)))
		}
		switch f.kind {
		case kindFixed:
			c.body = common.AppendFixed(c.body, fv)
		case kindString:
			c.writeText(fv.String())
		case kindBytes:
			b := fv.Bytes()
			c.body = common.WriteVarUint(c.body, uint64(len(b)))
			c.body = append(c.body, b...)
		case kindStr:
			s := fv.Interface().(inlinestr.Str)
			c.writeText(s.View())
		case kindFixedList:
			n := fv.Len()
			c.body = common.WriteVarUint(c.body, uint64(n))
			for j := 0; j < n; j++ {
				c.body = common.AppendFixed(c.body, fv.Index(j))
			}
		case kindStringList:
			n := fv.Len()
			c.body = common.WriteVarUint(c.body, uint64(n))
			for j := 0; j < n; j++ {
				c.writeText(fv.Index(j).String())
			}
		case kindStrList:
			n := fv.Len()
			c.body = common.WriteVarUint(c.body, uint64(n))
			for j := 0; j < n; j++ {
				s := fv.Index(j).Interface().(inlinestr.Str)
				c.writeText(s.View())
			}
		}
	}
	c.buf = append(c.buf, c.body...)
	return c.buf, nil
}

func (c *Codec) writeText(s string) {
	c.body = common.WriteVarUint(c.body, uint64(len(s)))
	c.body = append(c.body, s...)
}

// Decode fills out, a pointer to struct, from data. Records with fewer
// fields than the struct leave the trailing fields untouched.
func (c *Codec) Decode(data []byte, out any) error {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrNotStructPtr
	}
	dst := v.Elem()
	pl, err := c.getPlan(dst.Type())
	if err != nil {
		return err
	}

	n, cursor := common.ReadVarUint(data)
	if cursor == 0 {
		return ErrShortBuffer
	}
	if n > uint64(len(pl.fields)) {
		return fmt.Errorf("%w: %d fields encoded, %s has %d", ErrCorrupt, n, dst.Type(), len(pl.fields))
	}
	fields := pl.fields[:n]

	var offsets []int
	for _, f := range fields {
		if !f.isVar() {
			continue
		}
		off, k := common.ReadVarUint(data[cursor:])
		if k == 0 {
			return ErrShortBuffer
		}
		cursor += k
		offsets = append(offsets, int(off))
	}

	body := data[cursor:]
	pos := 0
	var varIdx int
	for _, f := range fields {
		fv := dst.Field(f.idx)
		if !f.isVar() {
			sz := common.FixedSize(f.elem)
			if len(body)-pos < sz {
				return ErrShortBuffer
			}
			common.SetFixed(fv, body[pos:pos+sz], f.elem)
			pos += sz
			continue
		}
		if offsets[varIdx] != pos {
			return fmt.Errorf("%w: field %d at offset %d, expected %d", ErrCorrupt, f.idx, offsets[varIdx], pos)
		}
		varIdx++
		used, err := c.decodeVar(body[pos:], fv, f)
		if err != nil {
			return fmt.Errorf("field %d: %w", f.idx, err)
		}
		pos += used
	}
	return nil
}

func (c *Codec) decodeVar(b []byte, fv reflect.Value, f fieldInfo) (int, error) {
	switch f.kind {
	case kindString:
		payload, used, err := readPayload(b)
		if err != nil {
			return 0, err
		}
		fv.SetString(c.toString(payload))
		return used, nil
	case kindBytes:
		payload, used, err := readPayload(b)
		if err != nil {
			return 0, err
		}
		fv.SetBytes(bytes.Clone(payload))
		return used, nil
	case kindStr:
		payload, used, err := readPayload(b)
		if err != nil {
			return 0, err
		}
		s, err := inlinestr.FromBytes(payload)
		if err != nil {
			return 0, err
		}
		fv.Set(reflect.ValueOf(s))
		return used, nil
	}

	cnt, pos := common.ReadVarUint(b)
	if pos == 0 {
		return 0, ErrShortBuffer
	}
	// every element takes at least one byte
	if cnt > uint64(len(b)-pos) {
		return 0, ErrShortBuffer
	}
	slice := reflect.MakeSlice(fv.Type(), int(cnt), int(cnt))
	for i := 0; i < int(cnt); i++ {
		ev := slice.Index(i)
		switch f.kind {
		case kindFixedList:
			sz := common.FixedSize(f.elem)
			if len(b)-pos < sz {
				return 0, ErrShortBuffer
			}
			common.SetFixed(ev, b[pos:pos+sz], f.elem)
			pos += sz
		case kindStringList:
			payload, used, err := readPayload(b[pos:])
			if err != nil {
				return 0, err
			}
			ev.SetString(c.toString(payload))
			pos += used
		case kindStrList:
			payload, used, err := readPayload(b[pos:])
			if err != nil {
				return 0, err
			}
			s, err := inlinestr.FromBytes(payload)
			if err != nil {
				return 0, fmt.Errorf("element %d: %w", i, err)
			}
			ev.Set(reflect.ValueOf(s))
			pos += used
		}
	}
	fv.Set(slice)
	return pos, nil
}

func (c *Codec) toString(b []byte) string {
	if c.Opts.UnsafeStrings {
		return common.UnsafeString(b)
	}
	return string(b)
}

// readPayload reads a varint length and that many bytes, returning the
// bytes and the total consumed.
func readPayload(b []byte) ([]byte, int, error) {
	l, n := common.ReadVarUint(b)
	if n == 0 || l > uint64(len(b)-n) {
		return nil, 0, ErrShortBuffer
	}
	end := n + int(l)
	return b[n:end], end, nil
}
