package wire

import (
	"testing"

	"github.com/rawbytedev/inlinestr"
)

type benchRecord struct {
	Tags     []inlinestr.Str
	Name     inlinestr.Str
	Mod      []int8
	Integers []int16
	Float6   []float64
}

func newBenchRecord() benchRecord {
	return benchRecord{
		Tags: []inlinestr.Str{
			inlinestr.New("azerty"), inlinestr.New("hello"),
			inlinestr.New("world"), inlinestr.New("a tag longer than inline"),
		},
		Name:     inlinestr.New("random"),
		Mod:      []int8{12, 10, 13, 1},
		Integers: []int16{100, 250, 300},
		Float6:   []float64{100.5, 165.63, 153.5},
	}
}

func BenchmarkZeroAllocs(b *testing.B) {
	type ZeroAllocs struct{ Int int8 }
	z := ZeroAllocs{Int: int8(1)}
	f := NewCodec(Options{})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = f.Encode(z)
	}
}

func BenchmarkEncode(b *testing.B) {
	z := newBenchRecord()
	f := NewCodec(Options{})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = f.Encode(&z)
	}
}

func BenchmarkDecode(b *testing.B) {
	z := newBenchRecord()
	y := &benchRecord{}
	f := NewCodec(Options{})
	res, _ := f.Encode(z)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = f.Decode(res, y)
	}
}

func BenchmarkMarshalCompressed(b *testing.B) {
	z := newBenchRecord()
	f := NewCodec(Options{})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = f.Marshal(z, FlagCompressed)
	}
}
