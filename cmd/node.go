package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"provchain/config"
	"provchain/consensus"
	"provchain/jsonrpc"
	"provchain/ledger"
	"provchain/logx"
	"provchain/mempool"
	"provchain/service"
	"provchain/store"
	"provchain/validator"
)

var (
	nodeConfigPath      string
	nodeChainConfigPath string
)

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Run a provchain node",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNode()
	},
}

func init() {
	nodeCmd.Flags().StringVar(&nodeConfigPath, "config", "config/genesis.yml", "path to the genesis yaml config")
	nodeCmd.Flags().StringVar(&nodeChainConfigPath, "chain-config", "", "optional .ini file overriding the [chain] tuning")
	rootCmd.AddCommand(nodeCmd)
}

func runNode() error {
	cfg, err := config.LoadGenesisConfig(nodeConfigPath)
	if err != nil {
		return logx.Errorf("failed to load config %s: %v", nodeConfigPath, err)
	}

	chainCfg := cfg.Chain
	if nodeChainConfigPath != "" {
		override, err := config.LoadChainConfig(nodeChainConfigPath)
		if err != nil {
			return logx.Errorf("failed to load chain config %s: %v", nodeChainConfigPath, err)
		}
		chainCfg = *override
	}

	records, blocks, err := store.CreateStore(&cfg.Store)
	if err != nil {
		return logx.Errorf("failed to open store: %v", err)
	}
	defer blocks.MustClose()

	registry := validator.NewRegistry()
	for _, entry := range cfg.Validators {
		v := validator.Validator{ID: entry.ID, PubKey: entry.PubKey, Role: entry.Role}
		if err := registry.Register(v); err != nil {
			return logx.Errorf("invalid validator entry %s: %v", entry.ID, err)
		}
	}

	pool := mempool.NewMempool()
	if err := pool.Reload(records); err != nil {
		return logx.Errorf("failed to reload waiting pool: %v", err)
	}

	ld := ledger.NewLedger(chainCfg, blocks, records, pool)
	if err := ld.EnsureBootstrap(); err != nil {
		return logx.Errorf("failed to bootstrap chain: %v", err)
	}

	engine := consensus.NewEngine(chainCfg, blocks, registry, ld)
	chainSvc := service.NewChainService(ld, engine, blocks)
	recordSvc := service.NewRecordService(records, pool, ld)

	rpc := jsonrpc.NewServer(cfg.Node.ListenAddr, chainSvc, recordSvc)
	rpc.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logx.Info("NODE", "shutting down")
	return nil
}
