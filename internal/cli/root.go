package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"swarm-console/internal/catalog"
	"swarm-console/internal/config"
	"swarm-console/internal/logger"
	"swarm-console/internal/swarmcore"
)

// app is what every command needs once flags and environment are resolved.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	client *swarmcore.Client
}

// flagKeys maps persistent flags to the configuration keys they override.
var flagKeys = []struct{ flag, key string }{
	{flag: "core-url", key: "core_url"},
	{flag: "ws-url", key: "ws_url"},
	{flag: "log-level", key: "log.level"},
}

func NewRootCmd() *cobra.Command {
	v := config.NewViper()
	a := &app{}

	cmd := &cobra.Command{
		Use:   "swarmctl",
		Short: "Hire an autonomous swarm and watch it work",
		Long: `swarmctl talks to swarm-core: it lists the swarms for hire, deploys a mission
to one of them and follows the mission live as the plan, telemetry and
artifact come in.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, v)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	pf := cmd.PersistentFlags()
	pf.String("core-url", "", "swarm-core base URL (overrides SWARM_CORE_URL)")
	pf.String("ws-url", "", "swarm-core websocket URL (overrides SWARM_WS_URL)")
	pf.String("log-level", "", "log level: debug, info, warn or error (overrides SWARM_LOG_LEVEL)")

	cmd.AddCommand(
		newSwarmsCmd(a),
		newDeployCmd(a),
		newWatchCmd(a),
		newHealthCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command, v *viper.Viper) error {
	pf := cmd.Root().PersistentFlags()
	for _, fk := range flagKeys {
		if err := v.BindPFlag(fk.key, pf.Lookup(fk.flag)); err != nil {
			return fmt.Errorf("bind --%s: %w", fk.flag, err)
		}
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logger); err != nil {
		return fmt.Errorf("could not initialize logger: %w", err)
	}
	a.cfg = cfg
	a.log = logger.Log
	a.client = swarmcore.New(cfg.CoreURL,
		swarmcore.WithToken(cfg.AuthToken),
		swarmcore.WithTimeout(cfg.HTTPTimeout),
		swarmcore.WithLogger(a.log),
	)
	a.log.Debug("Configuration loaded",
		zap.String("core_url", cfg.CoreURL),
		zap.String("ws_url", cfg.WSURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout))
	return nil
}

func (a *app) catalog() (*catalog.Catalog, error) {
	return catalog.Load(a.cfg.CatalogFile)
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
