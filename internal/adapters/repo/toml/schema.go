package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version        int              `toml:"version"`
	CurrentAccount string           `toml:"current_account"`
	Snapshots      []snapshotSchema `toml:"snapshots"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported state schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type snapshotSchema struct {
	Account  string   `toml:"account"`
	Subjects []string `toml:"subjects"`
}
