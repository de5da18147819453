package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

// Validator checks JSON payloads against a CUE schema document. The document
// is an external contract: it is compiled lazily and recompiled whenever the
// file changes on disk, so schema updates take effect without a restart.
type Validator struct {
	path string
	ctx  *cue.Context

	mu      sync.Mutex
	value   cue.Value
	modTime time.Time
	loaded  bool
}

// NewValidator builds a validator bound to the given schema file.
func NewValidator(path string) *Validator {
	return &Validator{
		path: path,
		ctx:  cuecontext.New(),
	}
}

// Path returns the schema file location.
func (v *Validator) Path() string {
	return v.path
}

func (v *Validator) schema() (cue.Value, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	info, err := os.Stat(v.path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("leyendo schema %s: %w", v.path, err)
	}
	if v.loaded && info.ModTime().Equal(v.modTime) {
		return v.value, nil
	}

	raw, err := os.ReadFile(v.path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("leyendo schema %s: %w", v.path, err)
	}

	compiled := v.ctx.CompileBytes(raw, cue.Filename(v.path))
	if err := compiled.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compilando schema %s: %s", v.path, cueerrors.Details(err, nil))
	}

	v.value = compiled
	v.modTime = info.ModTime()
	v.loaded = true
	return compiled, nil
}

// ValidateJSON unifies the raw JSON document with the schema and reports the
// first violation, if any.
func (v *Validator) ValidateJSON(raw []byte) error {
	schemaVal, err := v.schema()
	if err != nil {
		return err
	}

	expr, err := cuejson.Extract("payload.json", raw)
	if err != nil {
		return fmt.Errorf("payload no es JSON válido: %w", err)
	}
	data := v.ctx.BuildExpr(expr)
	if err := data.Err(); err != nil {
		return fmt.Errorf("payload no es JSON válido: %w", err)
	}

	unified := schemaVal.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%s", cueerrors.Details(err, nil))
	}
	return nil
}

// Validate marshals the value and runs it through ValidateJSON.
func (v *Validator) Validate(value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("serializando payload: %w", err)
	}
	return v.ValidateJSON(raw)
}
