package cmd

import (
	"context"
	"os"

	"cosmossdk.io/log"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ponder-dex/ponder/api"
	"github.com/ponder-dex/ponder/dex/factory"
	"github.com/ponder-dex/ponder/dex/types"
	"github.com/ponder-dex/ponder/ledger"
)

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the trading engine and its query API",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := log.NewLogger(os.Stderr)

			events := types.NewEventManager()
			f, err := factory.New(factory.Config{
				Params: types.Params{
					FeeTo:       types.Address(v.GetString("dex.fee_to")),
					FeeToSetter: types.Address(v.GetString("dex.fee_to_setter")),
					Launcher:    types.Address(v.GetString("dex.launcher")),
					PonderToken: types.Address(v.GetString("dex.ponder_token")),
				},
				Logger: logger,
				Events: events,
			})
			if err != nil {
				return err
			}

			reg := ledger.NewLedger()
			if err := registerTokens(v, reg, logger); err != nil {
				return err
			}
			if err := createPairs(cmd.Context(), v, f, reg, logger); err != nil {
				return err
			}

			srv := api.NewServer(f, events, &api.Config{
				Host:            v.GetString("api.host"),
				Port:            v.GetString("api.port"),
				CORSOrigins:     v.GetStringSlice("api.cors_origins"),
				RateLimitRPS:    v.GetInt("api.rate_limit_rps"),
				ReadTimeout:     api.DefaultConfig().ReadTimeout,
				WriteTimeout:    api.DefaultConfig().WriteTimeout,
				ShutdownTimeout: api.DefaultConfig().ShutdownTimeout,
			}, logger)
			return srv.Start()
		},
	}
	return cmd
}

// registerTokens loads the configured token set. Each entry carries an
// address and symbol, optionally launcher/creator for launch tokens.
func registerTokens(v *viper.Viper, reg *ledger.Ledger, logger log.Logger) error {
	raw, ok := v.Get("tokens").([]any)
	if !ok {
		return nil
	}
	for _, entry := range raw {
		m := cast.ToStringMap(entry)
		address := types.Address(cast.ToString(m["address"]))
		symbol := cast.ToString(m["symbol"])
		launcher := types.Address(cast.ToString(m["launcher"]))

		var token types.Token
		if launcher != types.ZeroAddress {
			token = ledger.NewLaunchToken(address, symbol, launcher,
				types.Address(cast.ToString(m["creator"])))
		} else {
			token = ledger.NewToken(address, symbol)
		}
		if err := reg.Register(token); err != nil {
			return err
		}
		logger.Info("token registered", "address", string(address), "symbol", symbol)
	}
	return nil
}

// createPairs deploys the configured markets, each named by its two token
// addresses.
func createPairs(ctx context.Context, v *viper.Viper, f *factory.Factory, reg *ledger.Ledger, logger log.Logger) error {
	raw, ok := v.Get("pairs").([]any)
	if !ok {
		return nil
	}
	for _, entry := range raw {
		m := cast.ToStringMap(entry)
		tokenA, okA := reg.Token(types.Address(cast.ToString(m["token_a"])))
		tokenB, okB := reg.Token(types.Address(cast.ToString(m["token_b"])))
		if !okA || !okB {
			return types.ErrPairNotFound.Wrapf("pair references unregistered tokens %v", m)
		}
		p, err := f.CreatePair(ctx, tokenA, tokenB)
		if err != nil {
			return err
		}
		logger.Info("pair deployed", "pair", string(p.Address()))
	}
	return nil
}
