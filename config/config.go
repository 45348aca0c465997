package config

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"provchain/logx"
)

// ChainConfig is the consensus tuning shared by the block factory and the
// consensus engine. It is explicit configuration, not ambient globals, so
// multiple chains and tests can run with independent settings.
type ChainConfig struct {
	BatchSize         int     `yaml:"batch_size" ini:"batch_size"`
	ApprovalThreshold float64 `yaml:"approval_threshold" ini:"approval_threshold"`
}

// DefaultChainConfig returns the stock tuning: batches of 2, 0.66 threshold.
func DefaultChainConfig() ChainConfig {
	return ChainConfig{
		BatchSize:         DefaultBatchSize,
		ApprovalThreshold: DefaultApprovalThreshold,
	}
}

// Validate rejects configurations the engine cannot run with.
func (c *ChainConfig) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.ApprovalThreshold <= 0 || c.ApprovalThreshold > 1 {
		return fmt.Errorf("approval_threshold must be in (0,1], got %f", c.ApprovalThreshold)
	}
	return nil
}

// LoadGenesisConfig reads and parses the genesis.yml file
func LoadGenesisConfig(path string) (*GenesisConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cfgFile ConfigFile
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfgFile); err != nil {
		return nil, err
	}

	cfg := &cfgFile.Config
	if cfg.Chain.BatchSize == 0 {
		cfg.Chain.BatchSize = DefaultBatchSize
	}
	if cfg.Chain.ApprovalThreshold == 0 {
		cfg.Chain.ApprovalThreshold = DefaultApprovalThreshold
	}
	if err := cfg.Chain.Validate(); err != nil {
		return nil, err
	}

	logx.Info("CONFIG", fmt.Sprintf("loaded genesis config: validators=%d store=%s batch=%d threshold=%.2f",
		len(cfg.Validators), cfg.Store.Type, cfg.Chain.BatchSize, cfg.Chain.ApprovalThreshold))
	return cfg, nil
}

// LoadChainConfig reads chain tuning from an .ini file ([chain] section).
// It overrides the yaml values when present.
func LoadChainConfig(path string) (*ChainConfig, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	chainSection := cfg.Section("chain")
	chainCfg := DefaultChainConfig()
	if err := chainSection.MapTo(&chainCfg); err != nil {
		return nil, err
	}
	if err := chainCfg.Validate(); err != nil {
		return nil, err
	}
	return &chainCfg, nil
}
