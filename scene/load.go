package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
)

var (
	// ErrUnsupportedFormat is returned for mesh files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported mesh format")
	// ErrNoGeometry is returned when a file holds no triangles.
	ErrNoGeometry = errors.New("no geometry found")
)

var pkgLogger atomic.Pointer[slog.Logger]

// SetLogger sets the logger the loaders report skipped data to.
// A nil logger restores slog.Default().
func SetLogger(l *slog.Logger) {
	pkgLogger.Store(l)
}

func logger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// LoadMesh loads every mesh in an .obj, .gltf or .glb file.
func LoadMesh(path string) ([]*Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	}
	return nil, fmt.Errorf("%q: %w", path, ErrUnsupportedFormat)
}

// SaveMesh writes meshes to a .gltf or .glb file. OBJ output is not
// supported because OBJ has no tangent attribute.
func SaveMesh(path string, meshes []*Mesh) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return SaveGLTF(path, meshes)
	}
	return fmt.Errorf("%q: %w", path, ErrUnsupportedFormat)
}
