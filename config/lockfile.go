package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/initializ/vancouver/version"
)

// Dependency is one (name, version) pair from the lock file.
type Dependency struct {
	Name    string
	Version version.Version
}

type lockFile struct {
	Package []lockPackage `toml:"package"`
}

type lockPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// LoadLock reads the lock file and returns its dependencies in file
// order. An empty dependency list is rejected: it is almost certainly a
// caller bug, and silently passing it would vouch for nothing.
func LoadLock(path string) ([]Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	var lock lockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("parsing lock file: %w", err)
	}
	if len(lock.Package) == 0 {
		return nil, fmt.Errorf("no dependencies found in %s", path)
	}
	deps := make([]Dependency, 0, len(lock.Package))
	for _, p := range lock.Package {
		deps = append(deps, Dependency{Name: p.Name, Version: version.Parse(p.Version)})
	}
	return deps, nil
}
