// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/edsonjmoreira/bi-portal/internal/app/store"
)

// DBDeps holds the storage backend for the app. The concrete type is
// chosen in ConnectDB; everything downstream sees only the contract.
type DBDeps struct {
	Store store.Store
}
