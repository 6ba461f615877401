package permission

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/pixil98/go-nopower/internal/game"
	"github.com/pixil98/go-nopower/internal/storage"
	"github.com/zyedidia/generic/mapset"
)

var (
	ErrUnknownPermission = errors.New("unknown permission")
	ErrInvalidName       = errors.New("invalid permission name")
)

// Registry holds the permission names plugins have registered and the grants
// operators have handed out.
type Registry struct {
	mu     sync.RWMutex
	owners map[string]string
	grants map[game.UserId]mapset.Set[string]
	file   *storage.DataFile
}

type grantsFile struct {
	Users map[string][]string `json:"users"`
}

// NewRegistry creates a registry. When file is non nil, grants are loaded from
// it and written back after every change.
func NewRegistry(file *storage.DataFile) (*Registry, error) {
	r := &Registry{
		owners: map[string]string{},
		grants: map[game.UserId]mapset.Set[string]{},
		file:   file,
	}

	if file == nil {
		return r, nil
	}

	var gf grantsFile
	err := file.ReadObject(&gf)
	if errors.Is(err, storage.ErrNoData) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading grants: %w", err)
	}

	for k, perms := range gf.Users {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("loading grants: invalid user id %q: %w", k, err)
		}
		set := mapset.New[string]()
		for _, p := range perms {
			set.Put(strings.ToLower(p))
		}
		r.grants[game.UserId(id)] = set
	}

	return r, nil
}

// RegisterPermission declares a permission owned by a plugin. Registering the
// same name twice is allowed for the same owner.
func (r *Registry) RegisterPermission(name, owner string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.owners[name]; ok && existing != owner {
		return fmt.Errorf("permission %q already registered by %s", name, existing)
	}
	r.owners[name] = owner
	slog.Debug("registered permission", "permission", name, "owner", owner)
	return nil
}

func (r *Registry) PermissionExists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.owners[strings.ToLower(name)]
	return ok
}

// Permissions lists registered permission names in order.
func (r *Registry) Permissions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.owners))
	for name := range r.owners {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// UserHasPermission reports whether the user was granted a registered permission.
func (r *Registry) UserHasPermission(u game.UserId, name string) bool {
	name = strings.ToLower(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.owners[name]; !ok {
		return false
	}
	set, ok := r.grants[u]
	return ok && set.Has(name)
}

// UserPermissions lists the permissions granted to a user in order.
func (r *Registry) UserPermissions(u game.UserId) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	if set, ok := r.grants[u]; ok {
		set.Each(func(p string) {
			out = append(out, p)
		})
	}
	slices.Sort(out)
	return out
}

// GrantUserPermission grants a registered permission. Granting twice is a no-op.
func (r *Registry) GrantUserPermission(u game.UserId, name string) error {
	name = strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owners[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPermission, name)
	}

	set, ok := r.grants[u]
	if !ok {
		set = mapset.New[string]()
		r.grants[u] = set
	}
	if set.Has(name) {
		return nil
	}
	set.Put(name)

	if err := r.save(); err != nil {
		set.Remove(name)
		if set.Size() == 0 {
			delete(r.grants, u)
		}
		return err
	}
	return nil
}

// RevokeUserPermission removes a grant. Revoking a grant the user does not
// hold is a no-op.
func (r *Registry) RevokeUserPermission(u game.UserId, name string) error {
	name = strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.grants[u]
	if !ok || !set.Has(name) {
		return nil
	}
	set.Remove(name)
	if set.Size() == 0 {
		delete(r.grants, u)
	}

	if err := r.save(); err != nil {
		set.Put(name)
		r.grants[u] = set
		return err
	}
	return nil
}

func (r *Registry) save() error {
	if r.file == nil {
		return nil
	}

	gf := grantsFile{Users: map[string][]string{}}
	for u, set := range r.grants {
		var perms []string
		set.Each(func(p string) {
			perms = append(perms, p)
		})
		slices.Sort(perms)
		gf.Users[strconv.FormatUint(uint64(u), 10)] = perms
	}

	if err := r.file.WriteObject(&gf); err != nil {
		return fmt.Errorf("saving grants: %w", err)
	}
	return nil
}
