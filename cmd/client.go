package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"provchain/client"
)

var clientEndpoint string

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Talk to a running node over JSON-RPC",
}

func init() {
	clientCmd.PersistentFlags().StringVar(&clientEndpoint, "endpoint", "http://localhost:8645", "node JSON-RPC endpoint")
	clientCmd.AddCommand(
		clientHealthCmd,
		clientSubmitTxCmd,
		clientSubmitEventCmd,
		clientApproveCmd,
		clientChainCmd,
		clientWaitingCmd,
		clientActivateCmd,
		clientVoteCmd,
		clientValidateCmd,
	)
	rootCmd.AddCommand(clientCmd)
}

func withClient(fn func(ctx context.Context, c *client.Client) error) error {
	c := client.NewClient(client.Config{Endpoint: clientEndpoint})
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return fn(ctx, c)
}

var clientHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check node health",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			ok, err := c.CheckHealth(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("ok=%v\n", ok)
			return nil
		})
	},
}

var clientSubmitTxCmd = &cobra.Command{
	Use:   "submit-tx <sender> <recipient> <amount>",
	Short: "Submit a transaction record",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			r, err := c.SubmitTransaction(ctx, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Printf("record %s status=%s\n", r.ID, r.Status)
			return nil
		})
	},
}

var clientSubmitEventCmd = &cobra.Command{
	Use:   "submit-event <asset> <action> [location] [actor]",
	Short: "Submit a supply-chain event record",
	Args:  cobra.RangeArgs(2, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		location, actor := "", ""
		if len(args) > 2 {
			location = args[2]
		}
		if len(args) > 3 {
			actor = args[3]
		}
		return withClient(func(ctx context.Context, c *client.Client) error {
			r, err := c.SubmitEvent(ctx, args[0], args[1], location, actor)
			if err != nil {
				return err
			}
			fmt.Printf("record %s status=%s\n", r.ID, r.Status)
			return nil
		})
	},
}

var clientApproveCmd = &cobra.Command{
	Use:   "approve <record-id>",
	Short: "Approve a record for block placement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			r, err := c.ApproveRecord(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("record %s status=%s\n", r.ID, r.Status)
			return nil
		})
	},
}

var clientChainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the committed chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			blocks, err := c.GetChain(ctx)
			if err != nil {
				return err
			}
			for _, b := range blocks {
				fmt.Printf("#%d %s records=%d hash=%s\n", b.SequenceNumber, b.ID, len(b.Records), b.Hash)
			}
			return nil
		})
	},
}

var clientWaitingCmd = &cobra.Command{
	Use:   "waiting",
	Short: "Show the current staging block",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			b, err := c.GetWaitingBlock(ctx)
			if err != nil {
				return err
			}
			if b == nil {
				fmt.Println("no staging block")
				return nil
			}
			fmt.Printf("%s status=%s records=%d\n", b.ID, b.Status, len(b.Records))
			return nil
		})
	},
}

var clientActivateCmd = &cobra.Command{
	Use:   "activate <block-id>",
	Short: "Open a full staging block for votes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			b, err := c.ActivateBlock(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s status=%s\n", b.ID, b.Status)
			return nil
		})
	},
}

var voteReject bool

var clientVoteCmd = &cobra.Command{
	Use:   "vote <block-id> <voter-id>",
	Short: "Cast a vote on a pending block",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			res, err := c.CastVote(ctx, args[0], args[1], !voteReject, nil)
			if err != nil {
				return err
			}
			fmt.Printf("%s (block status=%s)\n", res.Message, res.Block.Status)
			return nil
		})
	},
}

func init() {
	clientVoteCmd.Flags().BoolVar(&voteReject, "reject", false, "vote to reject instead of approve")
}

var clientValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Audit the chain integrity",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			res, err := c.ValidateChain(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("valid=%v length=%d\n", res.IsValid, len(res.Chain))
			return nil
		})
	},
}
