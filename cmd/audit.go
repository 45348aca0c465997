package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"provchain/config"
	"provchain/ledger"
	"provchain/logx"
	"provchain/mempool"
	"provchain/store"
)

var auditConfigPath string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Replay the committed chain and verify hashes, linkage and records",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAudit()
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditConfigPath, "config", "config/genesis.yml", "path to the genesis yaml config")
	rootCmd.AddCommand(auditCmd)
}

func runAudit() error {
	cfg, err := config.LoadGenesisConfig(auditConfigPath)
	if err != nil {
		return logx.Errorf("failed to load config %s: %v", auditConfigPath, err)
	}

	records, blocks, err := store.CreateStore(&cfg.Store)
	if err != nil {
		return logx.Errorf("failed to open store: %v", err)
	}
	defer blocks.MustClose()

	pool := mempool.NewMempool()
	ld := ledger.NewLedger(cfg.Chain, blocks, records, pool)

	valid, chain, err := ld.ValidateChain()
	if err != nil {
		return logx.Errorf("chain audit failed to run: %v", err)
	}

	fmt.Printf("chain length: %d\n", len(chain))
	if !valid {
		fmt.Println("chain is INVALID")
		os.Exit(1)
	}
	fmt.Println("chain is valid")
	return nil
}
