// Package resource loads the external template and stylesheet files a
// component refers to.
package resource

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Loader is the resource-loading contract the pipeline consumes.
type Loader interface {
	// CanPreload reports whether the loader supports asynchronous preloading
	// at all. When false the pipeline skips the preload phase entirely.
	CanPreload() bool

	// Resolve turns a resource specifier as written in a decorator into the
	// canonical resource path, relative to the file containing the decorator.
	Resolve(url, containingFile string) (string, error)

	// Preload begins fetching the resolved resource. The returned channel
	// yields the fetch outcome and is then closed. A nil channel means the
	// loader declines to preload this resource; the caller falls back to a
	// synchronous Load later.
	Preload(ctx context.Context, resolvedURL string) <-chan error

	// Load returns the content of a resolved resource. Preloaded content is
	// served from cache without touching the filesystem again.
	Load(resolvedURL string) (string, error)
}

type preloadOp struct {
	done chan struct{}
	err  error
}

// FileLoader reads resources from the filesystem under a root directory,
// keeping recently loaded contents in an LRU cache. Concurrent preloads of
// the same resource share a single fetch.
type FileLoader struct {
	root  string
	cache *lru.Cache[string, string]

	mu       sync.Mutex
	inflight map[string]*preloadOp
}

// NewFileLoader creates a FileLoader serving resources under root.
func NewFileLoader(root string, cacheSize int) (*FileLoader, error) {
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, err
	}
	return &FileLoader{
		root:     path.Clean(root),
		cache:    cache,
		inflight: make(map[string]*preloadOp),
	}, nil
}

// CanPreload reports preload support; the file loader always preloads.
func (l *FileLoader) CanPreload() bool { return true }

// Resolve joins the url with the directory of the containing file.
func (l *FileLoader) Resolve(url, containingFile string) (string, error) {
	resolved := url
	if !path.IsAbs(url) {
		resolved = path.Join(path.Dir(containingFile), url)
	}
	resolved = path.Clean(resolved)
	if l.root != "." && !strings.HasPrefix(resolved, l.root+"/") && resolved != l.root {
		return "", fmt.Errorf("resource %q resolves outside of root %q", url, l.root)
	}
	return resolved, nil
}

// Preload fetches the resource into the cache in the background.
func (l *FileLoader) Preload(ctx context.Context, resolvedURL string) <-chan error {
	result := make(chan error, 1)

	l.mu.Lock()
	if _, ok := l.cache.Get(resolvedURL); ok {
		l.mu.Unlock()
		close(result)
		return result
	}
	op, ok := l.inflight[resolvedURL]
	if !ok {
		op = &preloadOp{done: make(chan struct{})}
		l.inflight[resolvedURL] = op
		go l.fetch(resolvedURL, op)
	}
	l.mu.Unlock()

	go func() {
		select {
		case <-op.done:
			if op.err != nil {
				result <- op.err
			}
		case <-ctx.Done():
			result <- ctx.Err()
		}
		close(result)
	}()
	return result
}

// Load returns the resource content, reading it if not already cached.
func (l *FileLoader) Load(resolvedURL string) (string, error) {
	if content, ok := l.cache.Get(resolvedURL); ok {
		return content, nil
	}
	content, err := os.ReadFile(resolvedURL)
	if err != nil {
		return "", fmt.Errorf("failed to load resource %s: %w", resolvedURL, err)
	}
	l.cache.Add(resolvedURL, string(content))
	return string(content), nil
}

func (l *FileLoader) fetch(resolvedURL string, op *preloadOp) {
	content, err := os.ReadFile(resolvedURL)
	if err == nil {
		l.cache.Add(resolvedURL, string(content))
	} else {
		op.err = fmt.Errorf("failed to preload resource %s: %w", resolvedURL, err)
	}

	l.mu.Lock()
	delete(l.inflight, resolvedURL)
	l.mu.Unlock()
	close(op.done)
}
