// Package storage provides registry.Store implementations: a JSON file
// (the default) and a mongo database.
package storage

import (
	"context"
	"encoding/json"
	"os"

	"campusreg/internal/registry"
	"campusreg/pkg/errors"
	"campusreg/pkg/logger"
)

// DefaultFile is used whenever a caller leaves the filename blank.
const DefaultFile = "students_courses.json"

func NewFile(path string, log logger.Logger) *File {
	if path == "" {
		path = DefaultFile
	}
	return &File{
		path: path,
		log:  log.With("file_storage"),
	}
}

// File persists snapshots as a single UTF-8 JSON document, overwriting
// the target file as a whole on every save.
type File struct {
	path string
	log  logger.Logger
}

func (f *File) Save(_ context.Context, snap registry.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "    ")
	if err != nil {
		return errors.WrapFail(err, "marshal snapshot")
	}

	err = os.WriteFile(f.path, data, 0o644)
	if err != nil {
		return errors.WrapFailf(err, "write %s", f.path)
	}

	f.log.Infof("wrote snapshot to %s", f.path)
	return nil
}

func (f *File) Load(_ context.Context) (registry.Snapshot, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		// keeps os.ErrNotExist visible to errors.Is
		return registry.Snapshot{}, errors.WrapFailf(err, "read %s", f.path)
	}

	var snap registry.Snapshot
	err = json.Unmarshal(raw, &snap)
	if err != nil {
		return registry.Snapshot{}, errors.WrapFailf(err, "parse %s", f.path)
	}

	f.log.Infof("read snapshot from %s", f.path)
	return snap, nil
}
