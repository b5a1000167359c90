package tierbin

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

type benchRecord struct {
	Val      []string
	Mod      []int8
	Integers []int16
	Float3   []float32
	Float6   []float64
	ID       uint64
	Name     string
}

func benchValue() benchRecord {
	return benchRecord{
		Val: []string{"azerty", "hello", "world", "random"},
		Mod: []int8{12, 10, 13, 1}, Integers: []int16{100, 250, 300},
		Float3: []float32{12.13, 16.23, 75.1}, Float6: []float64{100.5, 165.63, 153.5},
		ID: 1547544565, Name: "bench",
	}
}

func BenchmarkZeroAllocs(b *testing.B) {
	type ZeroAllocs struct{ Int int8 }
	tc := MustFor[ZeroAllocs](NewRegistry())
	buf := make([]byte, 1)
	z := ZeroAllocs{Int: 1}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = tc.EncodeUnchecked(buf, z)
	}
}

func BenchmarkEncode(b *testing.B) {
	tc := MustFor[benchRecord](NewRegistry())
	z := benchValue()
	buf := make([]byte, tc.Size(z))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = tc.Encode(buf, z)
	}
}

func BenchmarkEncodeUnchecked(b *testing.B) {
	tc := MustFor[benchRecord](NewRegistry())
	z := benchValue()
	buf := make([]byte, tc.Size(z))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = tc.EncodeUnchecked(buf, z)
	}
}

func BenchmarkDecodeChecked(b *testing.B) {
	tc := MustFor[benchRecord](NewRegistry())
	res, _ := tc.Marshal(benchValue())
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _, _ = tc.DecodeChecked(res)
	}
}

func BenchmarkDecodeUnchecked(b *testing.B) {
	tc := MustFor[benchRecord](NewRegistry())
	res, _ := tc.Marshal(benchValue())
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _, _ = tc.DecodeUnchecked(res)
	}
}

func BenchmarkDecodeUnsafe(b *testing.B) {
	tc := MustFor[benchRecord](NewRegistry())
	res, _ := tc.Marshal(benchValue())
	if _, err := tc.Check(res); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = tc.DecodeUnsafe(res)
	}
}

func BenchmarkCheck(b *testing.B) {
	tc := MustFor[benchRecord](NewRegistry())
	res, _ := tc.Marshal(benchValue())
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = tc.Check(res)
	}
}

func BenchmarkYAMLRoundTrip(b *testing.B) {
	z := benchValue()
	var y benchRecord
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		res, _ := yaml.Marshal(z)
		_ = yaml.Unmarshal(res, &y)
	}
}

func BenchmarkCBORRoundTrip(b *testing.B) {
	z := benchValue()
	var y benchRecord
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		res, _ := cbor.Marshal(z)
		_ = cbor.Unmarshal(res, &y)
	}
}

func BenchmarkMsgpackRoundTrip(b *testing.B) {
	z := benchValue()
	var y benchRecord
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		res, _ := msgpack.Marshal(z)
		_ = msgpack.Unmarshal(res, &y)
	}
}

func BenchmarkTierbinRoundTrip(b *testing.B) {
	tc := MustFor[benchRecord](NewRegistry())
	z := benchValue()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		res, _ := tc.Marshal(z)
		_, _ = tc.Unmarshal(res)
	}
}
