package vm

// EntityKind identifies one unit of the script entity stream.
type EntityKind uint8

// Entity kinds.
const (
	EntityNone EntityKind = iota
	EntityString
	EntityNumeric
	EntityVariable
	EntityConstant
	EntityAssign
	EntityGet
	EntityBeginGroup
	EntityEndGroup
	EntityArray
	EntityOperation
	EntityBeginMeta
	EntityEndMeta
	EntityMetaToken
	EntityMetaString
	EntityEOF
)

var entityNames = [...]string{
	EntityNone:       "none",
	EntityString:     "string",
	EntityNumeric:    "numeric",
	EntityVariable:   "variable",
	EntityConstant:   "constant",
	EntityAssign:     "assign",
	EntityGet:        "get",
	EntityBeginGroup: "begin-group",
	EntityEndGroup:   "end-group",
	EntityArray:      "array",
	EntityOperation:  "operation",
	EntityBeginMeta:  "begin-meta",
	EntityEndMeta:    "end-meta",
	EntityMetaToken:  "meta-token",
	EntityMetaString: "meta-string",
	EntityEOF:        "end-of-input",
}

func (k EntityKind) String() string {
	if int(k) < len(entityNames) {
		return entityNames[k]
	}
	return "unknown"
}

// StringForm distinguishes the two string literal syntaxes.
type StringForm uint8

// String forms.
const (
	// Quoted is a "double-quoted" string with escapes already decoded.
	Quoted StringForm = iota

	// Curly is a {curly} string, used for color literals.
	Curly
)

// Entity is one item produced by an entity reader.
type Entity struct {
	Kind EntityKind

	// Key holds the name for declare, assign, get and operation entities,
	// the literal text for numeric entities, the prefix of a string entity,
	// and the token of a meta-token entity.
	Key string

	// Value holds the body of string and meta-string entities.
	Value string

	// Form is the syntax of a string entity.
	Form StringForm

	// Count is the element count of an array entity.
	Count int

	// Line is the 1-based script line the entity started on.
	Line int
}

// EntitySource supplies entities to a Machine.
//
// Next returns the following entity. After an EntityEOF entity the source
// is not read again.
type EntitySource interface {
	Next() (Entity, error)
}

// Entities is an EntitySource over a fixed slice. An EntityEOF is
// produced once the slice is exhausted.
type Entities []Entity

// Next implements EntitySource.
func (e *Entities) Next() (Entity, error) {
	if len(*e) == 0 {
		return Entity{Kind: EntityEOF}, nil
	}
	ent := (*e)[0]
	*e = (*e)[1:]
	return ent, nil
}
