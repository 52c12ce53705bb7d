package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/fmguard/internal/core/config"
)

// ConfigCheck reports where configuration came from and runs the deep
// validation.
type ConfigCheck struct {
	cfg  *config.Config
	path string
}

func NewConfigCheck(cfg *config.Config, path string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, path: path}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

// LoadFailure is the Configuration result for a config file that could not
// be loaded at all.
func LoadFailure(path string, err error) Result {
	return Result{
		Name: "Configuration",
		Items: []CheckItem{{
			Label:  "config file",
			Status: StatusFail,
			Detail: fmt.Sprintf("%s: %v", path, err),
		}},
	}
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if _, err := os.Stat(c.path); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "config file",
			Status: StatusPass,
			Detail: "not found, using defaults",
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "config file",
			Status: StatusPass,
			Detail: c.path,
		})
	}

	err := c.cfg.ValidateDeep(c.path)
	if err == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "validation",
			Status: StatusPass,
		})
		return result
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		result.Items = append(result.Items, CheckItem{
			Label:  "validation",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	for _, fe := range fieldErrs {
		result.Items = append(result.Items, CheckItem{
			Label:  fe.Field,
			Status: StatusFail,
			Detail: fe.Err.Error(),
		})
	}
	return result
}
