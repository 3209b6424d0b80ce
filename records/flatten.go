package records

// Flat is a single level record, composite key to scalar, in key discovery order.
type Flat struct {
	keys   []string
	values map[string]Value
}

func NewFlat(fields ...Field) *Flat {
	f := Flat{
		values: map[string]Value{},
	}

	for _, field := range fields {
		f.Set(field.Key, field.Value)
	}

	return &f
}

// Set is last-write-wins, a repeated key keeps its first position.
func (f *Flat) Set(key string, v Value) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}

	f.values[key] = v
}

func (f *Flat) Get(key string) (Value, bool) {
	if f == nil {
		return Value{}, false
	}

	v, ok := f.values[key]

	return v, ok
}

func (f *Flat) Keys() []string {
	if f == nil {
		return nil
	}

	return append([]string{}, f.keys...)
}

func (f *Flat) Len() int {
	if f == nil {
		return 0
	}

	return len(f.keys)
}

// Merge copies every field of g into f, in g's order.
func (f *Flat) Merge(g *Flat) {
	for _, k := range g.Keys() {
		f.Set(k, g.values[k])
	}
}

// Flatten folds a nested value into a Flat record. Object fields and array elements (keyed by
// index) are joined to the prefix with the separator. Arrays and objects are descended into,
// everything else (including null) is a leaf. Empty arrays and objects contribute nothing.
//
// Values are trees so there is no cycle check.
func Flatten(v Value, prefix, separator string) *Flat {
	flat := NewFlat()

	if !v.IsContainer() {
		if prefix != "" {
			flat.Set(prefix, v)
		}

		return flat
	}

	v.each(func(key string, child Value) {
		k := key
		if prefix != "" {
			k = prefix + separator + key
		}

		if child.IsContainer() {
			flat.Merge(Flatten(child, k, separator))
		} else {
			flat.Set(k, child)
		}
	})

	return flat
}

// FlattenAll flattens each record with an empty prefix.
func FlattenAll(list []Value, separator string) []*Flat {
	flats := make([]*Flat, 0, len(list))
	for _, v := range list {
		flats = append(flats, Flatten(v, "", separator))
	}

	return flats
}
