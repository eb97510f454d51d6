package storage

import (
	"fmt"
	"sort"
	"sync"

	"banksetl/internal/ddl"
)

// Backend describes a database/sql driver and the SQL dialect it speaks.
// Backend packages (sqlite, postgres, mysql) register one at init time.
type Backend struct {
	// Driver is the database/sql driver name passed to sql.Open.
	Driver string
	// Dialect renders the DDL and INSERT statements.
	Dialect ddl.Dialect
	// Init, when set, runs once after the connection is verified, e.g. to
	// apply PRAGMAs.
	Init func(exec Execer) error
}

var (
	regMu    sync.RWMutex
	backends = map[string]Backend{}
)

// Register registers (or replaces) the Backend for a storage kind. It is
// typically called from backend packages' init() functions.
func Register(kind string, b Backend) {
	regMu.Lock()
	defer regMu.Unlock()
	backends[kind] = b
}

// Lookup returns the Backend registered for kind.
func Lookup(kind string) (Backend, error) {
	regMu.RLock()
	b, ok := backends[kind]
	regMu.RUnlock()
	if !ok {
		return Backend{}, fmt.Errorf("storage: no backend registered for kind %q (registered: %v)", kind, Kinds())
	}
	return b, nil
}

// Kinds lists the registered storage kinds in sorted order.
func Kinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(backends))
	for k := range backends {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
