package acceptor

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrIgnored is returned for requests that are dropped without a response.
var ErrIgnored = errors.New("request ignored")

const faviconName = "favicon.ico"

// Resolution is where a requested resource lives on disk.
type Resolution struct {
	Name    string // resource name relative to BaseDir
	Path    string
	BaseDir string
}

// Resolver maps request resources onto the filesystem. A segment starting "~user"
// selects HomeRoot/user/UserDir for that request only, overriding Root.
type Resolver struct {
	Root     string
	HomeRoot string
	UserDir  string
}

// NewResolver returns a resolver rooted at root, or at the working
// directory when root is empty.
func NewResolver(root, homeRoot, userDir string) (*Resolver, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}
	return &Resolver{Root: abs, HomeRoot: homeRoot, UserDir: userDir}, nil
}

// Resolve maps a resource such as "/docs/a.html" or "/~alice/a.html".
func (r *Resolver) Resolve(resource string) (Resolution, error) {
	name := strings.TrimPrefix(resource, "/")
	base := r.Root

	if i := userSegment(name); i >= 0 {
		user, rest, _ := strings.Cut(name[i+1:], "/")
		if user == "" || user == "." || user == ".." || strings.ContainsAny(user, `/\`) {
			return Resolution{}, fmt.Errorf("%w: bad user in %q", ErrMalformedRequest, resource)
		}
		base = filepath.Join(r.HomeRoot, user, r.UserDir)
		name = rest
	}

	if name == faviconName {
		return Resolution{}, ErrIgnored
	}

	// Cleaning against "/" keeps ".." from leaving base.
	clean := path.Clean("/" + name)
	return Resolution{
		Name:    name,
		Path:    filepath.Join(base, filepath.FromSlash(clean)),
		BaseDir: base,
	}, nil
}

// userSegment returns the index of the first '~' that starts a path
// segment, or -1. A '~' inside a file name is part of that name.
func userSegment(name string) int {
	for i := 0; i < len(name); i++ {
		if name[i] == '~' && (i == 0 || name[i-1] == '/') {
			return i
		}
	}
	return -1
}

// ContentType maps txt and html to text/html and gif, jpg and jpeg to
// image/<ext>. Any other extension has no content type.
func ContentType(name string) string {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	switch ext {
	case "txt", "html":
		return "text/html"
	case "gif", "jpg", "jpeg":
		return "image/" + ext
	}
	return ""
}

// fileSize is 0 when the path cannot be statted or is not a regular file.
func fileSize(p string) int64 {
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return 0
	}
	return info.Size()
}
