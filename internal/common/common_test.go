package common

import (
	"math"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestVarUintRoundTrip(t *testing.T) {
	condition := func(x uint64) bool {
		b := WriteVarUint(nil, x)
		got, n := ReadVarUint(b)
		return got == x && n == len(b)
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))

	b := WriteVarUint(nil, math.MaxUint64)
	require.Len(t, b, MaxVarintLen)
}

func TestReadVarUintRejects(t *testing.T) {
	x, n := ReadVarUint([]byte{0x80, 0x80})
	require.Zero(t, x)
	require.Zero(t, n)

	overflow := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02}
	_, n = ReadVarUint(overflow)
	require.Zero(t, n)
}

func TestFixedRoundTrip(t *testing.T) {
	type fixed struct {
		B   bool
		I8  int8
		U8  uint8
		I16 int16
		U16 uint16
		I32 int32
		U32 uint32
		I64 int64
		U64 uint64
		F32 float32
		F64 float64
	}
	condition := func(in fixed) bool {
		src := reflect.ValueOf(in)
		var out fixed
		dst := reflect.ValueOf(&out).Elem()
		for i := 0; i < src.NumField(); i++ {
			k := src.Field(i).Kind()
			b := AppendFixed(nil, src.Field(i))
			if len(b) != FixedSize(k) || !IsFixedKind(k) {
				return false
			}
			SetFixed(dst.Field(i), b, k)
		}
		return reflect.DeepEqual(in, out)
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestUnsafeConversions(t *testing.T) {
	require.Equal(t, "", UnsafeString(nil))
	require.Nil(t, UnsafeBytes(""))
	b := []byte("hello")
	s := UnsafeString(b)
	require.Equal(t, "hello", s)
	require.Equal(t, b, UnsafeBytes(s))
}
