package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultRoot is the document root used when none is configured.
const DefaultRoot = "www"

// RedirectPolicy selects how the resolver decides a path has moved.
type RedirectPolicy string

const (
	// PolicyDirectory redirects existing directories that lack a trailing slash.
	PolicyDirectory RedirectPolicy = "directory"

	// PolicyExtension redirects any path not ending in "/", ".html" or ".css".
	// It never consults the filesystem, so extensionless files redirect too.
	PolicyExtension RedirectPolicy = "extension"
)

// ErrUnknownPolicy is returned by ParsePolicy for unrecognised names.
var ErrUnknownPolicy = errors.New("unknown redirect policy")

// ParsePolicy maps a configuration value to a RedirectPolicy.
// The empty string selects PolicyDirectory.
func ParsePolicy(name string) (RedirectPolicy, error) {
	switch RedirectPolicy(strings.ToLower(strings.TrimSpace(name))) {
	case "", PolicyDirectory:
		return PolicyDirectory, nil
	case PolicyExtension:
		return PolicyExtension, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// Resolver classifies requests against a document root.
// It holds only immutable settings and is safe for concurrent use.
type Resolver struct {
	root   string
	policy RedirectPolicy
	fs     FileSystem
}

// New returns a Resolver. Zero values select DefaultRoot, PolicyDirectory and
// OSFileSystem.
func New(root string, policy RedirectPolicy, fs FileSystem) *Resolver {
	if root == "" {
		root = DefaultRoot
	}
	if len(root) > 1 {
		root = strings.TrimSuffix(root, "/")
	}
	if policy == "" {
		policy = PolicyDirectory
	}
	if fs == nil {
		fs = OSFileSystem{}
	}
	return &Resolver{root: root, policy: policy, fs: fs}
}

// Root returns the document root prefix.
func (r *Resolver) Root() string { return r.root }

// Policy returns the active redirect policy.
func (r *Resolver) Policy() RedirectPolicy { return r.policy }

// Classify decides the outcome for req. Non-GET methods are rejected first.
// A traversal marker anywhere in the resolved path is a 404 even when the
// path would otherwise redirect.
func (r *Resolver) Classify(req Request) Outcome {
	if !isGet(req.Method) {
		return MethodNotAllowed{Path: req.Path}
	}

	path := r.resolve(req.Path)
	if hasTraversal(path) {
		return NotFound{}
	}

	if r.moved(path) {
		return MovedPermanently{Location: path[len(r.root):] + "/"}
	}

	if !r.fs.Exists(path) {
		return NotFound{}
	}

	return OK{Path: path}
}

// resolve prefixes the root and maps a trailing slash to its index page.
func (r *Resolver) resolve(rawPath string) string {
	path := r.root + rawPath
	if endsWithSlash(rawPath) {
		path += "index.html"
	}
	return path
}

func (r *Resolver) moved(path string) bool {
	switch r.policy {
	case PolicyExtension:
		return !endsWithSlash(path) && !isHTML(path) && !isCSS(path)
	default:
		return r.fs.IsDir(path) && !endsWithSlash(path)
	}
}

func isGet(method string) bool { return method == "GET" }

func isHTML(path string) bool { return strings.HasSuffix(path, ".html") }

func isCSS(path string) bool { return strings.HasSuffix(path, ".css") }

func endsWithSlash(path string) bool { return strings.HasSuffix(path, "/") }

// hasTraversal is a substring check on the unnormalised path.
func hasTraversal(path string) bool { return strings.Contains(path, "..") }
