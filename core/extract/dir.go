package extract

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"plcsync/core/entity"
)

// FromDir extracts a snapshot from a directory of per-artifact export files.
// Files with unrecognized names are ignored; recognized files that fail to
// read or collide on qualified name abort the whole extraction.
func FromDir(dir string) (*entity.EntitySet, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("snapshot directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("snapshot source %s is not a directory", dir)
	}

	builder := entity.NewBuilder()

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		unit, ok, err := unitFromFile(d.Name(), string(content))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return builder.Add(unit)
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return builder.Build(), nil
}
