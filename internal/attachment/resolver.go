// Package attachment maps stored upload names to public URLs and names new
// uploads. File bytes are written by the HTTP layer; this package never
// reads them.
package attachment

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kasi-noc/incident-tickets/internal/domain"
)

// DefaultPublicPath is where uploads are served from.
const DefaultPublicPath = "/uploads"

// Resolver turns stored attachment lists into URLs.
type Resolver struct {
	publicPath string
}

// NewResolver builds a resolver for the given public path segment.
func NewResolver(publicPath string) *Resolver {
	publicPath = strings.TrimRight(strings.TrimSpace(publicPath), "/")
	if publicPath == "" {
		publicPath = DefaultPublicPath
	}
	return &Resolver{publicPath: publicPath}
}

// PublicPath returns the URL prefix uploads are served under.
func (r *Resolver) PublicPath() string {
	return r.publicPath
}

// ToURLs splits a delimiter-joined list of stored names, drops empty
// entries and prefixes each with the public path.
func (r *Resolver) ToURLs(stored string) []string {
	urls := []string{}
	for _, name := range strings.Split(stored, domain.ListSeparator) {
		if strings.TrimSpace(name) == "" {
			continue
		}
		urls = append(urls, r.publicPath+"/"+name)
	}
	return urls
}

// Namer generates collision-avoiding names for uploaded files.
type Namer struct {
	now func() time.Time
}

// NewNamer builds a namer; a nil clock means time.Now.
func NewNamer(now func() time.Time) *Namer {
	if now == nil {
		now = time.Now
	}
	return &Namer{now: now}
}

// Name prefixes the base of the original file name with the current unix
// milliseconds. Separators that would corrupt the stored list are replaced.
func (n *Namer) Name(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	base = strings.NewReplacer(domain.ListSeparator, "_", ",", "_", "\n", "_", "\r", "_").Replace(base)
	return fmt.Sprintf("%d-%s", n.now().UnixMilli(), base)
}
