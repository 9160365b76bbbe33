package loader

import (
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// compiledSchema lazily compiles a schema document on first use.
type compiledSchema struct {
	name   string
	source func() ([]byte, error)

	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

func (c *compiledSchema) validate(doc any) error {
	c.once.Do(func() {
		text, err := c.source()
		if err != nil {
			c.err = err
			return
		}
		c.schema, c.err = jsonschema.CompileString(c.name, string(text))
	})
	if c.err != nil {
		return fmt.Errorf("compile %s: %w", c.name, c.err)
	}
	return c.schema.Validate(doc)
}

var (
	hypothesesValidator = &compiledSchema{name: "hypotheses.schema.json", source: HypothesesSchema}
	queriesValidator    = &compiledSchema{name: "queries.schema.json", source: QueriesSchema}
	outcomesValidator   = &compiledSchema{name: "outcomes.schema.json", source: OutcomesSchema}
)

func validateHypotheses(doc any) error { return hypothesesValidator.validate(doc) }
func validateQueries(doc any) error    { return queriesValidator.validate(doc) }
func validateOutcomes(doc any) error   { return outcomesValidator.validate(doc) }
