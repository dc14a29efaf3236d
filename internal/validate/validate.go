package validate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/MalithGihan/protocol-extract/pkg/types"
)

//go:embed schema/results.schema.json
var resultsSchema []byte

const schemaURL = "results.schema.json"

var (
	once    sync.Once
	schema  *jsonschema.Schema
	loadErr error
)

func load() {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(resultsSchema)); err != nil {
		loadErr = err
		return
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		loadErr = err
		return
	}
	schema = s
}

// Records checks a results payload: digits-only phones and single-spaced,
// trimmed names.
func Records(records []types.OwnerRecord) error {
	if records == nil {
		records = []types.OwnerRecord{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return Value(b)
}

// Value validates raw JSON against the results schema.
func Value(raw []byte) error {
	once.Do(load)
	if loadErr != nil {
		return loadErr
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return schema.Validate(v)
}
