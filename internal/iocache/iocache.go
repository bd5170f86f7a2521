package iocache

import (
	"sync"

	"github.com/huangsam/heatwatch/internal/contract"
)

// StoreManager owns the stream store shared by the CLI commands and the server.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	streams      contract.StreamStore
}

// GetStreamStore returns the initialized StreamStore, or nil before InitStores.
func (mgr *StoreManager) GetStreamStore() contract.StreamStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.streams
}
