// Package permissions holds the route table the RBAC middleware enforces.
// Paths are chi route patterns, so both "/api/rooms" and "/api/rooms/" are listed
// where a route group root can resolve to either.
package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission is one route rule. Permissions lists the roles allowed through;
// Skip marks a public route that needs no token.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the route. A rule without roles admits any
// authenticated caller.
func (p Permission) Allows(role string) bool {
	return p.Skip || len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

func key(method, path string) string {
	return method + " " + path
}

// FindPermissions looks up the rule for a route pattern. Unknown routes get the zero rule.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	if r.index != nil {
		return r.index[key(method, path)]
	}

	for _, endpoint := range r.Endpoints {
		if endpoint.Path == path && endpoint.Method == method {
			return endpoint
		}
	}

	return Permission{}
}

func (r *PermissionData) buildIndex() {
	r.index = make(map[string]Permission, len(r.Endpoints))

	for _, endpoint := range r.Endpoints {
		r.index[key(endpoint.Method, endpoint.Path)] = endpoint
	}
}

// Get decodes the embedded route table. It returns nil when the table is malformed,
// which makes the RBAC middleware deny everything.
func Get() *PermissionData {
	var data PermissionData

	if err := json.Unmarshal(permissionsData, &data); err != nil {
		log.Error().Err(err).Msg("failed to decode embedded permissions")

		return nil
	}

	data.buildIndex()

	log.Info().Int("endpoints", len(data.Endpoints)).Msg("loaded embedded permissions")

	return &data
}
