package tierbin

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/exp/constraints"

	"github.com/rawbytedev/tierbin/internal/common"
	"github.com/rawbytedev/tierbin/pkg/schema"
)

// Registry compiles and caches codecs per Go type. Compiled codecs are
// immutable and the registry is safe for concurrent use.
type Registry struct {
	opts Options
	log  zerolog.Logger

	mu        sync.RWMutex
	codecs    map[reflect.Type]Codec
	bound     map[reflect.Type]Codec
	unions    map[reflect.Type]*schema.UnionSchema
	enums     map[reflect.Type]*enumCodec
	overrides map[string]Codec
}

type Option func(*Registry)

func WithOptions(o Options) Option {
	return func(r *Registry) { r.opts = o }
}

// WithLogger sets the logger used for compile and registration events.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		opts:      DefaultOptions,
		log:       zerolog.Nop(),
		codecs:    make(map[reflect.Type]Codec),
		bound:     make(map[reflect.Type]Codec),
		unions:    make(map[reflect.Type]*schema.UnionSchema),
		enums:     make(map[reflect.Type]*enumCodec),
		overrides: make(map[string]Codec),
	}
	for _, o := range opts {
		o(r)
	}
	r.bound[timeType] = UnixNanoTime
	r.overrides[UnixNanoName] = UnixNanoTime
	return r
}

// Default is the registry behind the package-level helpers.
var Default = NewRegistry()

func (r *Registry) Options() Options { return r.opts }

// RegisterCodec binds a codec to a whole type. It must happen before the type
// is first compiled.
func (r *Registry) RegisterCodec(t reflect.Type, c Codec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.codecs[t]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyCompiled, t)
	}
	r.bound[t] = c
	r.log.Debug().Stringer("type", t).Stringer("static", c.StaticSize()).Msg("bound codec")
	return nil
}

// RegisterCodecFor is RegisterCodec for a type parameter.
func RegisterCodecFor[T any](r *Registry, c Codec) error {
	return r.RegisterCodec(reflect.TypeFor[T](), c)
}

// RegisterOverride makes c available to fields tagged `tierbin:"with=name"`.
func (r *Registry) RegisterOverride(name string, c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[name] = c
	r.log.Debug().Str("name", name).Stringer("static", c.StaticSize()).Msg("registered override")
}

// RegisterUnion registers the variants of an interface type. Tags are
// resolved from the variant list; see schema.ResolveUnion.
func (r *Registry) RegisterUnion(iface reflect.Type, variants []schema.VariantSpec, disc schema.Discriminants) error {
	us, err := schema.ResolveUnion(iface, variants, disc)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.codecs[iface]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyCompiled, iface)
	}
	r.unions[iface] = us
	r.log.Debug().Stringer("type", iface).Int("variants", len(us.Variants)).Bool("unit", us.AllUnit()).Msg("registered union")
	return nil
}

// RegisterUnionOf registers positionally tagged variants of the interface I,
// given as sample values.
func RegisterUnionOf[I any](r *Registry, samples ...I) error {
	variants := make([]schema.VariantSpec, len(samples))
	for i, s := range samples {
		variants[i] = schema.Variant(reflect.TypeOf(s))
	}
	return r.RegisterUnion(reflect.TypeFor[I](), variants, nil)
}

// RegisterEnum registers the values of an integer type as a uniform-unit
// union: value i is encoded as the tag byte i.
func RegisterEnum[T constraints.Integer](r *Registry, values ...T) error {
	tags := make(map[T]uint8, len(values))
	specs := make([]schema.VariantSpec, len(values))
	for i, v := range values {
		specs[i] = schema.VariantSpec{Name: fmt.Sprint(v), Shape: schema.Unit}
	}
	resolved, err := schema.ResolveTags(specs, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", reflect.TypeFor[T](), err)
	}
	for i, v := range values {
		if _, dup := tags[v]; dup {
			return fmt.Errorf("%s: duplicate enum value %v", reflect.TypeFor[T](), v)
		}
		tags[v] = resolved[i].Tag
	}
	return registerEnum(r, values, tags)
}

// RegisterEnumTags registers an integer type whose values carry explicit
// tag bytes.
func RegisterEnumTags[T constraints.Integer](r *Registry, tags map[T]uint8) error {
	values := make([]T, 0, len(tags))
	specs := make([]schema.VariantSpec, 0, len(tags))
	for v, tag := range tags {
		values = append(values, v)
		specs = append(specs, schema.VariantSpec{Name: fmt.Sprint(v), Kind: schema.Explicit, Tag: tag, Shape: schema.Unit})
	}
	if _, err := schema.ResolveTags(specs, nil); err != nil {
		return fmt.Errorf("%s: %w", reflect.TypeFor[T](), err)
	}
	return registerEnum(r, values, tags)
}

func registerEnum[T constraints.Integer](r *Registry, values []T, tags map[T]uint8) error {
	t := reflect.TypeFor[T]()
	bits := make([]uint64, len(values))
	order := make([]uint8, len(values))
	for i, v := range values {
		bits[i] = common.Bits(reflect.ValueOf(v))
		order[i] = tags[v]
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.codecs[t]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyCompiled, t)
	}
	r.enums[t] = newEnumCodec(bits, order)
	r.log.Debug().Stringer("type", t).Int("values", len(values)).Msg("registered enum")
	return nil
}

// CodecOf returns the compiled codec of t, compiling it on first use.
func (r *Registry) CodecOf(t reflect.Type) (Codec, error) {
	r.mu.RLock()
	if c, ok := r.codecs[t]; ok {
		r.mu.RUnlock()
		return c, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check
	if c, ok := r.codecs[t]; ok {
		return c, nil
	}
	b := &compiler{r: r, pending: make(map[reflect.Type]*lazyCodec), done: make(map[reflect.Type]Codec)}
	c, err := b.build(t)
	if err != nil {
		return nil, err
	}
	for bt, bc := range b.done {
		r.codecs[bt] = bc
	}
	return c, nil
}

// compiler builds codecs for one CodecOf call under the registry's write
// lock. Nothing is published to the cache unless the whole build succeeds.
type compiler struct {
	r       *Registry
	pending map[reflect.Type]*lazyCodec
	done    map[reflect.Type]Codec
}

func (b *compiler) build(t reflect.Type) (Codec, error) {
	if c, ok := b.r.codecs[t]; ok {
		return c, nil
	}
	if c, ok := b.done[t]; ok {
		return c, nil
	}
	if l, ok := b.pending[t]; ok {
		return l, nil
	}
	l := &lazyCodec{}
	b.pending[t] = l
	c, err := b.compile(t)
	delete(b.pending, t)
	if err != nil {
		return nil, err
	}
	l.c = c
	b.done[t] = c
	b.r.log.Debug().Stringer("type", t).Stringer("static", c.StaticSize()).Msg("compiled codec")
	return c, nil
}

func (b *compiler) compile(t reflect.Type) (Codec, error) {
	if c, ok := b.r.bound[t]; ok {
		return c, nil
	}
	if c, ok := b.r.enums[t]; ok {
		return c, nil
	}
	if isNonZero(t) {
		return newNonZeroCodec(t), nil
	}
	switch k := t.Kind(); k {
	case reflect.Bool:
		return boolCodec{}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return newIntCodec(k), nil
	case reflect.Float32, reflect.Float64:
		return &floatCodec{width: common.FixedSize(k)}, nil
	case reflect.String:
		return stringCodec{}, nil
	case reflect.Slice:
		elem, err := b.build(t.Elem())
		if err != nil {
			return nil, err
		}
		if _, plain := elem.(*intCodec); plain && t.Elem().Kind() == reflect.Uint8 {
			return &bytesCodec{t: t}, nil
		}
		return newSliceCodec(t, elem), nil
	case reflect.Array:
		elem, err := b.build(t.Elem())
		if err != nil {
			return nil, err
		}
		return newArrayCodec(t, elem), nil
	case reflect.Map:
		key, err := b.build(t.Key())
		if err != nil {
			return nil, err
		}
		val, err := b.build(t.Elem())
		if err != nil {
			return nil, err
		}
		return newMapCodec(t, key, val), nil
	case reflect.Pointer:
		elem, err := b.build(t.Elem())
		if err != nil {
			return nil, err
		}
		return &pointerCodec{t: t, elem: elem}, nil
	case reflect.Struct:
		return b.record(t)
	case reflect.Interface:
		us, ok := b.r.unions[t]
		if !ok {
			return nil, fmt.Errorf("%w: interface %s has no registered variants", ErrUnsupported, t)
		}
		return b.union(us)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, t)
}

func (b *compiler) record(t reflect.Type) (Codec, error) {
	rs, err := schema.FromStruct(t)
	if err != nil {
		return nil, err
	}
	fields := make([]recordField, 0, len(rs.Fields))
	for _, f := range rs.Fields {
		var c Codec
		if f.With != "" {
			o, ok := b.r.overrides[f.With]
			if !ok {
				return nil, fmt.Errorf("%w: %q on %s.%s", ErrUnknownOverride, f.With, t, f.Name)
			}
			c = o
		} else if c, err = b.build(f.Type); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t, f.Name, err)
		}
		fields = append(fields, recordField{index: f.Position, name: f.Name, codec: c})
	}
	skipped := make([]skippedField, 0, len(rs.Skipped))
	for _, f := range rs.Skipped {
		if def := defaultFunc(f.Type); def.IsValid() {
			skipped = append(skipped, skippedField{index: f.Position, def: def})
		}
	}
	return newRecordCodec(fields, skipped), nil
}

func (b *compiler) union(us *schema.UnionSchema) (Codec, error) {
	variants := make([]*unionVariant, len(us.Variants))
	for i, v := range us.Variants {
		uv := &unionVariant{tag: v.Tag, name: v.Name, t: v.Type}
		if v.Type.Kind() == reflect.Pointer {
			uv.t, uv.ptr = v.Type.Elem(), true
		}
		c, err := b.build(uv.t)
		if err != nil {
			return nil, fmt.Errorf("%s variant %s: %w", us.Interface, v.Name, err)
		}
		uv.codec = c
		variants[i] = uv
	}
	return newUnionCodec(variants), nil
}
