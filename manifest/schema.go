package manifest

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// schema constrains a fully merged configuration.
const schema = `
#Manifest: {
	project: {
		name:  string
		entry: string
	}
	run: {
		rational: bool
		quiet:    bool
		seed?:    int
	}
	adaptive: {
		enabled:           bool
		threshold:         int & >=1
		"log-compilation": bool
	}
	log: {
		level: "none" | "critical" | "error" | "warning" | "notice" | "info" | "debug"
		file:  string
	}
	history: {
		path:  string
		limit: int & >=0
	}
}
`

// Validate checks the configuration against the schema.
func (m *Manifest) Validate() error {
	ctx := cuecontext.New()
	def := ctx.CompileString(schema).LookupPath(cue.ParsePath("#Manifest"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	v := def.Unify(ctx.Encode(m))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return err
	}
	return nil
}
