package tierbin

// Tuples are records with positional fields. They are the unnamed payload
// shape of union variants and work anywhere a struct does.

type Tuple2[A, B any] struct {
	V0 A
	V1 B
}

type Tuple3[A, B, C any] struct {
	V0 A
	V1 B
	V2 C
}

type Tuple4[A, B, C, D any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
}

func (Tuple2[A, B]) Arity() int       { return 2 }
func (Tuple3[A, B, C]) Arity() int    { return 3 }
func (Tuple4[A, B, C, D]) Arity() int { return 4 }

func T2[A, B any](a A, b B) Tuple2[A, B] { return Tuple2[A, B]{a, b} }

func T3[A, B, C any](a A, b B, c C) Tuple3[A, B, C] { return Tuple3[A, B, C]{a, b, c} }

func T4[A, B, C, D any](a A, b B, c C, d D) Tuple4[A, B, C, D] {
	return Tuple4[A, B, C, D]{a, b, c, d}
}
