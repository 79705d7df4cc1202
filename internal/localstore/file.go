package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/noah-isme/course-portal/pkg/storage"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// File persists flags as a JSON object in one file per namespace.
type File struct {
	mu       sync.Mutex
	fs       *storage.LocalStorage
	filename string
}

// NewFile stores flags under fs.
func NewFile(fs *storage.LocalStorage, namespace string) *File {
	name := "state"
	if namespace != "" {
		name = "state-" + unsafeName.ReplaceAllString(namespace, "_")
	}
	return &File{fs: fs, filename: name + ".json"}
}

// Enrolled implements Store.
func (f *File) Enrolled(_ context.Context, courseID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	flags, err := f.load()
	if err != nil {
		return false, err
	}
	return flags[Key(courseID)] == "true", nil
}

// SetEnrolled implements Store.
func (f *File) SetEnrolled(_ context.Context, courseID int64, enrolled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	flags, err := f.load()
	if err != nil {
		return err
	}
	if enrolled {
		flags[Key(courseID)] = "true"
	} else {
		delete(flags, Key(courseID))
	}
	data, err := json.MarshalIndent(flags, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local state: %w", err)
	}
	if _, err := f.fs.Save(f.filename, data); err != nil {
		return fmt.Errorf("save local state: %w", err)
	}
	return nil
}

func (f *File) load() (map[string]string, error) {
	data, err := f.fs.Read(f.filename)
	if errors.Is(err, storage.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load local state: %w", err)
	}
	flags := map[string]string{}
	if len(data) == 0 {
		return flags, nil
	}
	if err := json.Unmarshal(data, &flags); err != nil {
		return nil, fmt.Errorf("decode local state %s: %w", f.filename, err)
	}
	return flags, nil
}
