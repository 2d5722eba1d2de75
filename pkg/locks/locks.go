// Package locks implements cooperative, in-process resource ownership.
//
// A resource is a name (usually a file the owning module persists, such as
// "carton.json"). At most one module owns a resource at a time. Nothing
// here touches the filesystem: the table only records who is responsible
// for a resource so two modules never manage the same file.
package locks

import (
	"sort"
	"sync"

	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/logging"
)

// Table maps resources to their owner
type Table struct {
	mu     sync.Mutex
	owners map[string]string
}

// New creates an empty lock table
func New() *Table {
	return &Table{owners: make(map[string]string)}
}

// Acquire records owner as the owner of resource. Acquiring a resource the
// owner already holds is a no-op.
func (t *Table) Acquire(owner, resource string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, held := t.owners[resource]
	if held && current != owner {
		return lockedError(resource, current)
	}

	t.owners[resource] = owner
	logger := logging.GetLogger("locks")
	logger.Trace().
		Str("resource", resource).
		Str("owner", owner).
		Msg("Resource acquired")
	return nil
}

// Release clears owner's claim on resource
func (t *Table) Release(owner, resource string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, held := t.owners[resource]
	if !held {
		return errors.Newf(errors.ErrResourceFree, "resource '%s' is not locked", resource).
			WithDetail("resource", resource)
	}
	if current != owner {
		return lockedError(resource, current)
	}

	delete(t.owners, resource)
	logger := logging.GetLogger("locks")
	logger.Trace().
		Str("resource", resource).
		Str("owner", owner).
		Msg("Resource released")
	return nil
}

// Owner returns the owner of resource, if any
func (t *Table) Owner(resource string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	owner, held := t.owners[resource]
	return owner, held
}

// Held returns the resources owned by owner, sorted
func (t *Table) Held(owner string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var resources []string
	for resource, current := range t.owners {
		if current == owner {
			resources = append(resources, resource)
		}
	}
	sort.Strings(resources)
	return resources
}

func lockedError(resource, owner string) error {
	return errors.Newf(errors.ErrResourceLocked, "resource '%s' is owned by '%s'", resource, owner).
		WithDetails(map[string]interface{}{
			"resource": resource,
			"owner":    owner,
		})
}
