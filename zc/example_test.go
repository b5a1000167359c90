package zc_test

import (
	"fmt"

	"github.com/rawbytedev/tierbin"
	"github.com/rawbytedev/tierbin/zc"
)

type Sample struct {
	At    int64
	Value float32
	Chan  uint16
	Flags uint16
}

func (Sample) LayoutAttested() {}

func Example() {
	r := tierbin.NewRegistry()
	if err := zc.Register[Sample](r); err != nil {
		panic(err)
	}
	tc := tierbin.MustFor[[]Sample](r)

	data, err := tc.Marshal([]Sample{{At: 1, Value: 0.5, Chan: 2}, {At: 2, Value: 1.5, Chan: 3}})
	if err != nil {
		panic(err)
	}

	second, err := zc.View[Sample](data[4+16:], zc.Options{ValidateFloats: true})
	if err != nil {
		panic(err)
	}
	fmt.Println(len(data), second.At, second.Value, second.Chan)
	// Output:
	// 36 2 1.5 3
}
