package config

import "provchain/store"

// NodeConfig represents the node's transport configuration
type NodeConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// ValidatorEntry is one roster member from the genesis file
type ValidatorEntry struct {
	ID     string `yaml:"id"`
	PubKey string `yaml:"pubkey"`
	Role   string `yaml:"role"`
}

// GenesisConfig holds the configuration from genesis.yml
type GenesisConfig struct {
	Node       NodeConfig        `yaml:"node"`
	Store      store.StoreConfig `yaml:"store"`
	Validators []ValidatorEntry  `yaml:"validators"`
	Chain      ChainConfig       `yaml:"chain"`
}

// ConfigFile is the top-level structure for genesis.yml
type ConfigFile struct {
	Config GenesisConfig `yaml:"config"`
}
