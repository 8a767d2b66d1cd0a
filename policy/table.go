package policy

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrEthical07/goNexus/identity"
)

// ErrDuplicateRoute is returned when a table lists the same path twice.
var ErrDuplicateRoute = errors.New("policy: duplicate route")

// Table is an ordered, immutable set of route descriptors.
type Table struct {
	routes []Descriptor
	byPath map[string]int
}

// NewTable validates routes and returns a Table.
func NewTable(routes ...Descriptor) (*Table, error) {
	t := &Table{
		routes: make([]Descriptor, 0, len(routes)),
		byPath: make(map[string]int, len(routes)),
	}
	for _, d := range routes {
		if d.Path == "" || !strings.HasPrefix(d.Path, "/") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRoute, d.Path)
		}
		if d.Allowed != nil && len(d.Allowed.Roles()) == 0 {
			return nil, fmt.Errorf("route %s: %w", d.Path, ErrEmptyRoleSet)
		}
		if _, dup := t.byPath[d.Path]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoute, d.Path)
		}
		t.byPath[d.Path] = len(t.routes)
		t.routes = append(t.routes, d)
	}
	return t, nil
}

// DefaultRoutes returns the dashboard's protected routes.
func DefaultRoutes() []Descriptor {
	return []Descriptor{
		MustDescriptor("/"),
		MustDescriptor("/products"),
		MustDescriptor("/users", identity.RoleAdmin),
		MustDescriptor("/analytics", identity.RoleAdmin),
		MustDescriptor("/settings"),
	}
}

// DefaultTable returns a Table over [DefaultRoutes].
func DefaultTable() *Table {
	t, err := NewTable(DefaultRoutes()...)
	if err != nil {
		panic(err)
	}
	return t
}

// Routes returns the descriptors in table order.
func (t *Table) Routes() []Descriptor {
	out := make([]Descriptor, len(t.routes))
	copy(out, t.routes)
	return out
}

// Lookup returns the descriptor guarding path. An exact match wins; otherwise the
// longest route that is a path-segment prefix of path ("/products/42" matches
// "/products"). "/" matches only itself.
func (t *Table) Lookup(path string) (Descriptor, bool) {
	if i, ok := t.byPath[path]; ok {
		return t.routes[i], true
	}
	if len(path) > 1 {
		if i, ok := t.byPath[strings.TrimRight(path, "/")]; ok {
			return t.routes[i], true
		}
	}

	best := -1
	for i, d := range t.routes {
		if d.Path == "/" {
			continue
		}
		if strings.HasPrefix(path, d.Path+"/") && (best < 0 || len(d.Path) > len(t.routes[best].Path)) {
			best = i
		}
	}
	if best < 0 {
		return Descriptor{}, false
	}
	return t.routes[best], true
}

type tableFile struct {
	Routes []routeEntry `yaml:"routes"`
}

type routeEntry struct {
	Path  string   `yaml:"path"`
	Roles []string `yaml:"roles"`
}

// LoadTable parses a YAML route table:
//
//	routes:
//	  - path: /
//	  - path: /users
//	    roles: [ADMIN]
//
// An omitted roles key admits any authenticated identity; "roles: []" is rejected.
func LoadTable(r io.Reader) (*Table, error) {
	var f tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("policy: decode route table: %w", err)
	}
	if len(f.Routes) == 0 {
		return nil, errors.New("policy: route table has no routes")
	}

	descs := make([]Descriptor, 0, len(f.Routes))
	for _, e := range f.Routes {
		var roles []identity.Role
		if e.Roles != nil {
			roles = make([]identity.Role, 0, len(e.Roles))
			for _, name := range e.Roles {
				r, err := identity.ParseRole(name)
				if err != nil {
					return nil, fmt.Errorf("route %s: role %q: %w", e.Path, name, err)
				}
				roles = append(roles, r)
			}
		}
		d, err := NewDescriptor(e.Path, roles)
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	return NewTable(descs...)
}

// LoadTableFile reads a YAML route table from path.
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("policy: open route table: %w", err)
	}
	defer f.Close()
	return LoadTable(f)
}
