package commands

import (
	"fmt"

	"github.com/colonyops/fmguard/internal/core/config"
	"github.com/colonyops/fmguard/internal/core/git"
	"github.com/colonyops/fmguard/internal/core/logging"
	"github.com/colonyops/fmguard/internal/fmguard"
	"github.com/colonyops/fmguard/pkg/executil"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	Root       string
	NoColor    bool

	// Config is loaded in the Before hook and available to all commands. It
	// is nil when the config file could not be loaded.
	Config *config.Config

	// LoadErr holds the config or schema failure from Load. config validate
	// and doctor report it; every other command fails with it.
	LoadErr error
}

// DefaultConfigPath returns the config file name looked up in the project root.
func DefaultConfigPath() string {
	return config.DefaultFileName
}

// ResolvedConfigPath returns the config path joined to the project root when
// relative.
func (f *Flags) ResolvedConfigPath() string {
	return config.ResolvePath(f.ConfigPath, f.Root)
}

// Load reads the config and fills app in place. Failures are kept on LoadErr
// rather than returned.
func (f *Flags) Load(app *fmguard.App, exec executil.Executor) {
	cfg, err := config.Load(f.ConfigPath, f.Root)
	if err != nil {
		f.LoadErr = fmt.Errorf("load config: %w", err)
		return
	}
	f.Config = cfg

	built, err := fmguard.NewApp(cfg, f.ResolvedConfigPath(), git.NewExecutor(cfg.GitPath, exec), logging.Component("fmguard"))
	if err != nil {
		f.LoadErr = err
		return
	}

	// Populate the pre-allocated App struct (commands already hold a pointer to it)
	*app = *built
}

// loaded returns LoadErr, for commands that need a working App.
func (f *Flags) loaded() error {
	return f.LoadErr
}
