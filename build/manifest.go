package build

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// ManifestFileName is the optional per-project manifest consulted before the
// command line.
const ManifestFileName = "sable-mod.toml"

// tomlManifest represents the project manifest as it is encoded in TOML.
type tomlManifest struct {
	Project *tomlProject `toml:"project"`
}

// tomlProject represents the project section of the manifest.
type tomlProject struct {
	Name      string   `toml:"name"`
	Toolchain string   `toml:"toolchain,omitempty"`
	Output    string   `toml:"output,omitempty"`
	Includes  []string `toml:"includes,omitempty"`
	Debug     bool     `toml:"debug"`
}

// LoadManifest reads the project manifest in the given directory, if one
// exists, and folds it into the configuration.  Command-line flags override
// manifest values, so this runs first.
func LoadManifest(dir string, cfg *Config) error {
	buff, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}

	tm := &tomlManifest{}
	if err := toml.Unmarshal(buff, tm); err != nil {
		return err
	}

	if tm.Project == nil {
		return nil
	}

	if tm.Project.Toolchain != "" {
		cfg.Toolchain = tm.Project.Toolchain
	}
	if tm.Project.Output != "" {
		cfg.OutputName = tm.Project.Output
	}
	cfg.Includes = append(cfg.Includes, tm.Project.Includes...)
	cfg.Debug = cfg.Debug || tm.Project.Debug

	return nil
}
