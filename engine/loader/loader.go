// Package loader imports glTF/GLB asset files into the engine's model
// representation and caches the results by path.
package loader

import (
	"fmt"
	"io"
	"sync"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/paavohuhtala/demogine/engine/model"
	"github.com/paavohuhtala/demogine/logger"
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	generateTangents bool

	modelCache map[string]*model.Model
}

// Loader defines the public-facing interface for loading and caching 3D models.
// It parses glTF 2.0 documents (text or GLB binary) and converts them into
// model hierarchies the scene graph can spawn.
type Loader interface {
	// Load imports a model file and caches the result by path.
	// If the model is already cached, the cached version is returned.
	//
	// Parameters:
	//   - path: the file path to the .gltf or .glb file
	//
	// Returns:
	//   - *model.Model: the loaded and cached model
	//   - error: error if parsing or conversion fails
	Load(path string) (*model.Model, error)

	// LoadReader imports a model from a reader stream and caches it by the
	// given name. GLB binary containers are detected from the stream header.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing glTF or GLB data
	//
	// Returns:
	//   - *model.Model: the loaded model
	//   - error: error if parsing or conversion fails
	LoadReader(name string, r io.Reader) (*model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *model.Model: the cached model or nil
	Get(name string) *model.Model

	// Models returns the full model cache.
	//
	// Returns:
	//   - map[string]*model.Model: all cached models keyed by name
	Models() map[string]*model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the given options applied.
// Tangent generation for primitives lacking TANGENT accessors is on by default.
//
// Parameters:
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the newly created loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		generateTangents: true,
		modelCache:       make(map[string]*model.Model),
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (*model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: opening %q: %w", path, err)
	}

	return l.convertAndCache(path, doc)
}

func (l *loader) LoadReader(name string, r io.Reader) (*model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("loader: decoding %q: %w", name, err)
	}

	return l.convertAndCache(name, doc)
}

func (l *loader) Get(name string) *model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]*model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]*model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		out[k] = v
	}
	return out
}

// convertAndCache converts a parsed glTF document into a model and stores
// it in the cache under the given name.
func (l *loader) convertAndCache(name string, doc *gltf.Document) (*model.Model, error) {
	m, err := l.convertDocument(name, doc)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.modelCache[name] = m
	l.mu.Unlock()

	logger.Debug("model loaded",
		zap.String("name", name),
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("roots", len(m.Roots)),
	)
	return m, nil
}
