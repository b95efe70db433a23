package source

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ErrUnsupportedScheme is returned for URIs with a scheme other than file or s3.
var ErrUnsupportedScheme = errors.New("unsupported location scheme")

// Scheme identifies the storage backend of a Location.
type Scheme string

const (
	SchemeFile Scheme = "file"
	SchemeS3   Scheme = "s3"
)

// Location is a parsed input or output URI.
type Location struct {
	Scheme Scheme
	// Path is the local file path for SchemeFile.
	Path string
	// Bucket and Key address an object for SchemeS3.
	Bucket string
	Key    string
	Raw    string
}

// String returns the URI the location was parsed from.
func (l Location) String() string {
	return l.Raw
}

// IsLocal reports whether the location is a local file.
func (l Location) IsLocal() bool {
	return l.Scheme == SchemeFile
}

// WithSuffix returns a location in the same place whose file name has suffix
// inserted before the extension.
func (l Location) WithSuffix(suffix string) Location {
	insert := func(p string) string {
		ext := path.Ext(p)
		return strings.TrimSuffix(p, ext) + suffix + ext
	}
	out := l
	switch l.Scheme {
	case SchemeS3:
		out.Key = insert(l.Key)
		out.Raw = "s3://" + l.Bucket + "/" + out.Key
	default:
		out.Path = insert(l.Path)
		out.Raw = out.Path
	}
	return out
}

// Parse turns a URI or plain path into a Location.
func Parse(uri string) (Location, error) {
	if uri == "" {
		return Location{}, errors.New("location cannot be empty")
	}
	if !strings.Contains(uri, "://") {
		return Location{Scheme: SchemeFile, Path: uri, Raw: uri}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, fmt.Errorf("invalid location %q: %w", uri, err)
	}
	switch Scheme(u.Scheme) {
	case SchemeFile:
		if u.Path == "" {
			return Location{}, fmt.Errorf("invalid location %q: empty path", uri)
		}
		return Location{Scheme: SchemeFile, Path: u.Path, Raw: uri}, nil
	case SchemeS3:
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Location{}, fmt.Errorf("invalid location %q: want s3://bucket/key", uri)
		}
		return Location{Scheme: SchemeS3, Bucket: u.Host, Key: key, Raw: uri}, nil
	default:
		return Location{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}
