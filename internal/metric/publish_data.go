package metric

// Class says whether a named datum is indexed by the backend or not.
type Class uint8

const (
	// ClassTag marks an indexed datum (device identity, location).
	ClassTag Class = iota + 1

	// ClassField marks an unindexed measured datum (power, energy).
	ClassField
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassTag:
		return "tag"
	case ClassField:
		return "field"
	default:
		return "invalid"
	}
}

// Field is a named Value of a given Class.
type Field struct {
	Class Class
	Name  string
	Value Value
}

// PublishData is the ordered set of tags and fields produced by one device
// poll.
//
// It is built by a single poll and only read afterwards; the accessors hand
// out copies so consumers cannot alter what other publishers see. Names are
// not required to be unique, but lookups treat the first entry with a given
// name as authoritative, so producers must not reuse a name for two
// different meanings.
type PublishData struct {
	fields []Field
}

// NewPublishData returns an empty PublishData.
func NewPublishData() *PublishData {
	return &PublishData{}
}

// AddTag appends an indexed datum.
func (p *PublishData) AddTag(name string, v Value) {
	p.fields = append(p.fields, Field{Class: ClassTag, Name: name, Value: v})
}

// AddField appends an unindexed datum.
func (p *PublishData) AddField(name string, v Value) {
	p.fields = append(p.fields, Field{Class: ClassField, Name: name, Value: v})
}

// Get returns the value of the first entry named name, of either class.
func (p *PublishData) Get(name string) (Value, bool) {
	for _, f := range p.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Fields returns all entries in insertion order.
func (p *PublishData) Fields() []Field {
	out := make([]Field, len(p.fields))
	copy(out, p.fields)
	return out
}

// Tags returns the ClassTag entries in insertion order.
func (p *PublishData) Tags() []Field {
	return p.filter(ClassTag)
}

// Measurements returns the ClassField entries in insertion order.
func (p *PublishData) Measurements() []Field {
	return p.filter(ClassField)
}

// Len returns the number of entries.
func (p *PublishData) Len() int {
	return len(p.fields)
}

func (p *PublishData) filter(c Class) []Field {
	var out []Field
	for _, f := range p.fields {
		if f.Class == c {
			out = append(out, f)
		}
	}
	return out
}
