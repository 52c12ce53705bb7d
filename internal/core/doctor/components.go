package doctor

import (
	"context"
	"fmt"

	"github.com/colonyops/fmguard/internal/core/config"
)

// ComponentsCheck reports the configured component schemas and whether their
// JSON Schema files compile.
type ComponentsCheck struct {
	cfg *config.Config
}

func NewComponentsCheck(cfg *config.Config) *ComponentsCheck {
	return &ComponentsCheck{cfg: cfg}
}

func (c *ComponentsCheck) Name() string {
	return "Components"
}

func (c *ComponentsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	reg, err := c.cfg.Registry()
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "schemas",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	for _, name := range reg.Names() {
		comp, _ := reg.Lookup(name)
		detail := fmt.Sprintf("%d required, %d optional", len(comp.Required), len(comp.Optional))
		if comp.HasJSONSchema() {
			detail += ", json schema " + comp.SchemaFile
		}
		result.Items = append(result.Items, CheckItem{
			Label:  name,
			Status: StatusPass,
			Detail: detail,
		})
	}

	for _, w := range c.cfg.Warnings() {
		if w.Category != "Components" {
			continue
		}
		result.Items = append(result.Items, CheckItem{
			Label:  w.Item,
			Status: StatusWarn,
			Detail: w.Message,
		})
	}

	return result
}
