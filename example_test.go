package tierbin_test

import (
	"errors"
	"fmt"

	"github.com/rawbytedev/tierbin"
	"github.com/rawbytedev/tierbin/pkg/wire"
)

type Point struct {
	X, Y  int16
	Label string
}

func Example() {
	tc := tierbin.MustFor[Point](tierbin.NewRegistry())

	data, err := tc.Marshal(Point{X: 1, Y: -2, Label: "a"})
	if err != nil {
		panic(err)
	}
	fmt.Printf("% x\n", data)

	p, n, err := tc.DecodeChecked(data)
	if err != nil {
		panic(err)
	}
	fmt.Println(p.X, p.Y, p.Label, n, tc.StaticSize())
	// Output:
	// 01 00 fe ff 01 00 00 00 61
	// 1 -2 a 9 None
}

type Shape interface{ area() float64 }

type Square struct{ Side float64 }
type Empty struct{}

func (s Square) area() float64 { return s.Side * s.Side }
func (Empty) area() float64    { return 0 }

func ExampleRegisterUnionOf() {
	r := tierbin.NewRegistry()
	if err := tierbin.RegisterUnionOf[Shape](r, Square{}, Empty{}); err != nil {
		panic(err)
	}
	tc := tierbin.MustFor[[]Shape](r)

	data, err := tc.Marshal([]Shape{Empty{}, Square{Side: 2}})
	if err != nil {
		panic(err)
	}
	shapes, err := tc.Unmarshal(data)
	if err != nil {
		panic(err)
	}
	fmt.Println(len(data), shapes[1].area())
	// Output:
	// 14 4
}

func ExampleTypeCodec_Check() {
	tc := tierbin.MustFor[[]string](tierbin.NewRegistry(tierbin.WithOptions(tierbin.SecureOptions)))

	_, err := tc.Check([]byte{1, 0, 0, 0, 2, 0, 0, 0, 0xc3, 0x28})
	fmt.Println(errors.Is(err, tierbin.ErrStringType))

	var werr *wire.Error
	fmt.Println(errors.As(err, &werr), werr.Offset)
	// Output:
	// true
	// true 10
}
