package schema

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

// source declares the shape of the JSON stores.
const source = `
#Record: {
	main_identifier!: string
	identifiers!: [string]: string
	...
}

#Collection: [string]: #Record

#Order: [...string]
`

// Validator checks raw JSON documents against the store schemas.
// A cue.Context is not safe for concurrent use, so calls are serialized.
type Validator struct {
	mu         sync.Mutex
	ctx        *cue.Context
	collection cue.Value
	order      cue.Value
}

// New compiles the store schemas.
func New() (*Validator, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(source, cue.Filename("stores.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile store schema: %w", err)
	}

	return &Validator{
		ctx:        ctx,
		collection: root.LookupPath(cue.ParsePath("#Collection")),
		order:      root.LookupPath(cue.ParsePath("#Order")),
	}, nil
}

// IdentifierCollection validates a JSON object of identifier records.
func (v *Validator) IdentifierCollection(name string, data []byte) error {
	return v.validate(v.collection, name, data)
}

// OrderList validates a JSON array of citation keys.
func (v *Validator) OrderList(name string, data []byte) error {
	return v.validate(v.order, name, data)
}

func (v *Validator) validate(schema cue.Value, name string, data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	expr, err := cuejson.Extract(name, data)
	if err != nil {
		return err
	}

	value := v.ctx.BuildExpr(expr)
	if err := value.Err(); err != nil {
		return err
	}

	return schema.Unify(value).Validate(cue.Concrete(true))
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
	defaultErr       error
)

// Default returns a process-wide validator, compiling it on first use.
func Default() (*Validator, error) {
	defaultOnce.Do(func() {
		defaultValidator, defaultErr = New()
	})
	return defaultValidator, defaultErr
}
