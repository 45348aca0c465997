package store

import (
	"fmt"
	"path/filepath"

	"provchain/db"
)

// StoreType represents the type of store implementation
type StoreType string

const (
	// LevelDBStoreType uses the LevelDB implementation
	LevelDBStoreType StoreType = "leveldb"

	// BoltStoreType uses the bbolt implementation
	BoltStoreType StoreType = "bolt"

	// MemoryStoreType keeps everything in process memory (tests, dev)
	MemoryStoreType StoreType = "memory"
)

// StoreConfig holds configuration for creating store instances
type StoreConfig struct {
	// Type specifies which store implementation to use
	Type StoreType `json:"type" yaml:"type"`

	// Directory is the database directory path (for file-based databases)
	Directory string `json:"directory" yaml:"directory"`
}

// Validate validates the store configuration
func (sc *StoreConfig) Validate() error {
	if sc.Type == "" {
		return fmt.Errorf("store type cannot be empty")
	}

	switch sc.Type {
	case MemoryStoreType:
		return nil
	case LevelDBStoreType, BoltStoreType:
		if sc.Directory == "" {
			return fmt.Errorf("directory cannot be empty")
		}
		return nil
	default:
		return fmt.Errorf("unsupported store type: %s", sc.Type)
	}
}

// StoreFactory takes responsibility to create store instances
type StoreFactory struct{}

// NewStoreFactory creates a new store factory
func NewStoreFactory() *StoreFactory {
	return &StoreFactory{}
}

// CreateStoreWithProvider creates the record and block stores over one shared provider
func (sf *StoreFactory) CreateStoreWithProvider(config *StoreConfig) (RecordStore, BlockStore, error) {
	if config == nil {
		return nil, nil, fmt.Errorf("config cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	provider, err := sf.CreateProvider(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create provider: %w", err)
	}

	recordStore, err := NewGenericRecordStore(provider)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create record store: %w", err)
	}

	blockStore, err := NewGenericBlockStore(provider)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create block store: %w", err)
	}

	return recordStore, blockStore, nil
}

// CreateProvider creates a database provider based on the configuration
func (sf *StoreFactory) CreateProvider(config *StoreConfig) (db.IterableProvider, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch config.Type {
	case LevelDBStoreType:
		provider, err := db.NewLevelDBProvider(config.Directory)
		if err != nil {
			return nil, err
		}
		return provider.(db.IterableProvider), nil

	case BoltStoreType:
		provider, err := db.NewBoltProvider(filepath.Join(config.Directory, "provchain.db"))
		if err != nil {
			return nil, err
		}
		return provider.(db.IterableProvider), nil

	case MemoryStoreType:
		return db.NewMemoryProvider().(db.IterableProvider), nil

	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}

// Global factory instance
var globalFactory = NewStoreFactory()

// CreateStore creates new store instances using the global factory
func CreateStore(config *StoreConfig) (RecordStore, BlockStore, error) {
	return globalFactory.CreateStoreWithProvider(config)
}
