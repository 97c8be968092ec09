package application

import (
	"context"
	"io/fs"
	"sort"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MigrationRegistry collects embedded schema files from modules and applies
// them in registration order. Schema files are expected to be idempotent
// (CREATE TABLE IF NOT EXISTS style).
type MigrationRegistry struct {
	schemas []fs.FS
}

func (m *MigrationRegistry) RegisterSchema(fsys fs.FS) {
	m.schemas = append(m.schemas, fsys)
}

func (m *MigrationRegistry) Apply(ctx context.Context, pool *pgxpool.Pool) error {
	for _, fsys := range m.schemas {
		files, err := sqlFiles(fsys)
		if err != nil {
			return err
		}
		for _, file := range files {
			content, err := fs.ReadFile(fsys, file)
			if err != nil {
				return errors.Wrapf(err, "failed to read schema file %s", file)
			}
			if _, err := pool.Exec(ctx, string(content)); err != nil {
				return errors.Wrapf(err, "failed to apply schema file %s", file)
			}
		}
	}
	return nil
}

func sqlFiles(fsys fs.FS) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && len(path) > 4 && path[len(path)-4:] == ".sql" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
