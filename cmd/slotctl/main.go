package main

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"slot_backend/internal/config"
	"slot_backend/internal/config/env"
	"slot_backend/internal/converter"
	"slot_backend/internal/engine"
	"slot_backend/internal/simulation"
	"slot_backend/pkg/provably"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:          "slotctl",
		Short:        "Offline tools for the cluster slot: verify spins, simulate RTP, generate seeds",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the game config")

	root.AddCommand(
		newVerifyCmd(&configPath),
		newSimulateCmd(&configPath),
		newSeedCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.SlotConfig, error) {
	if path == "" {
		return env.DefaultSlotConfig(), nil
	}
	return env.NewSlotConfigFromYAML(path)
}

func printJSON(v any) error {
	out, err := jsoniter.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func newVerifyCmd(configPath *string) *cobra.Command {
	var (
		serverSeed string
		clientSeed string
		hash       string
		nonce      uint64
		ante       bool
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Recompute a spin from a revealed server seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			eng, err := engine.New(cfg.Rules())
			if err != nil {
				return err
			}

			v, err := eng.Verify(serverSeed, clientSeed, nonce, ante)
			if err != nil {
				return err
			}
			if hash != "" && !provably.VerifyCommitment(serverSeed, hash) {
				return fmt.Errorf("server seed does not match commitment %s (got %s)", hash, v.ServerSeedHash)
			}
			return printJSON(struct {
				ServerSeedHash string `json:"server_seed_hash"`
				Outcome        any    `json:"outcome"`
			}{v.ServerSeedHash, converter.ToOutcome(v.Outcome)})
		},
	}
	cmd.Flags().StringVar(&serverSeed, "server-seed", "", "revealed server seed")
	cmd.Flags().StringVar(&clientSeed, "client-seed", "", "client seed")
	cmd.Flags().StringVar(&hash, "hash", "", "published server seed hash to check against")
	cmd.Flags().Uint64Var(&nonce, "nonce", 0, "spin nonce")
	cmd.Flags().BoolVar(&ante, "ante", false, "ante mode")
	_ = cmd.MarkFlagRequired("server-seed")
	return cmd
}

func newSimulateCmd(configPath *string) *cobra.Command {
	var (
		spins     int
		workers   int
		bet       string
		ante      bool
		tolerance float64
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Monte-Carlo RTP run including bonus rounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			eng, err := engine.New(cfg.Rules())
			if err != nil {
				return err
			}
			b, err := decimal.NewFromString(bet)
			if err != nil {
				return fmt.Errorf("invalid bet: %w", err)
			}

			if workers < 1 {
				workers = 1
			}
			// свежие серверные сиды на каждый запуск, как у реальных игроков
			serverSeeds := make([]string, workers)
			for i := range serverSeeds {
				if serverSeeds[i], err = provably.NewServerSeed(); err != nil {
					return err
				}
			}

			started := time.Now()
			rep, err := simulation.Run(cmd.Context(), eng, cfg.BonusRules(), func(w int) string { return serverSeeds[w] }, simulation.Params{
				Spins:            spins,
				Workers:          workers,
				Bet:              b,
				Ante:             ante,
				AnteFactor:       cfg.AnteFactor(),
				MaxWinMultiplier: cfg.MaxWinMultiplier(),
				ClientSeed:       "slotctl",
			})
			if err != nil {
				return err
			}

			fmt.Printf("paid spins:      %d\n", rep.BaseSpins)
			fmt.Printf("free spins:      %d\n", rep.FreeSpins)
			fmt.Printf("bonus rounds:    %d (1 in %.1f)\n", rep.BonusRounds, rep.BonusFrequency())
			fmt.Printf("hit rate:        %.2f%%\n", rep.HitRate())
			fmt.Printf("total stake:     %s\n", rep.TotalStake.StringFixed(2))
			fmt.Printf("base payout:     %s\n", rep.BasePayout.StringFixed(2))
			fmt.Printf("bonus payout:    %s\n", rep.BonusPayout.StringFixed(2))
			fmt.Printf("rtp:             %.3f%% (target %.2f%%)\n", rep.RTP(), cfg.TargetRTP())
			fmt.Printf("max win:         %s (cap hits %d)\n", rep.MaxWin.StringFixed(2), rep.MaxWinCapHits)
			fmt.Printf("elapsed:         %s\n", time.Since(started).Round(time.Millisecond))

			if tolerance > 0 && math.Abs(rep.RTP()-cfg.TargetRTP()) > tolerance {
				return fmt.Errorf("rtp %.3f%% is more than %.2f p.p. from target %.2f%%", rep.RTP(), tolerance, cfg.TargetRTP())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&spins, "spins", 100000, "number of paid spins")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "parallel workers")
	cmd.Flags().StringVar(&bet, "bet", "1", "bet per spin")
	cmd.Flags().BoolVar(&ante, "ante", false, "ante mode")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 5, "fail when rtp is further than this from target, p.p. (0 disables)")
	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Generate a server seed and its commitment hash",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverSeed, err := provably.NewServerSeed()
			if err != nil {
				return err
			}
			clientSeed, err := provably.NewClientSeed()
			if err != nil {
				return err
			}
			return printJSON(map[string]string{
				"server_seed":      serverSeed,
				"server_seed_hash": provably.HashServerSeed(serverSeed),
				"client_seed":      clientSeed,
			})
		},
	}
}
