package main

import (
	"io"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/paraglidehq/optimus"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "OPTIMUS"

// app carries the state shared by every subcommand.
type app struct {
	v   *viper.Viper
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "optimus",
		Short: "Reversible integer ID obfuscation.",
		Long: `Reversible integer ID obfuscation.
Maps IDs in [0, 2^31) to other IDs in the same range and back, For example:
  optimus generate --format env > optimus.env
  OPTIMUS_PRIME=1580030173 OPTIMUS_RANDOM=1163945558 optimus encode 1 2 3
  optimus decode --prime=1580030173 --random=1163945558 458047115`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.optimus.yaml)")
	flags.Bool("verbose", false, "enable debug logging")
	flags.Uint64("prime", 0, "prime, required by encode, decode and migrate")
	flags.Uint64("mod-inverse", 0, "modular inverse of prime (derived when unset)")
	flags.Uint64("random", 0, "XOR mask (drawn at random when unset)")
	_ = a.v.BindPFlags(flags)

	root.AddCommand(
		a.generateCmd(),
		a.inverseCmd(),
		a.encodeCmd(),
		a.decodeCmd(),
		a.migrateCmd(),
	)
	return root
}

// setup reads the environment and config file, then sets up logging.
func (a *app) setup(stderr io.Writer) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	cfgFile := a.v.GetString("config")
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return errors.Wrap(err, "find home directory")
		}
		a.v.AddConfigPath(home)
		a.v.SetConfigName(".optimus")
	}
	err := a.v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return errors.Wrap(err, "read config")
		}
	}

	level := zerolog.InfoLevel
	if a.v.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
	if err == nil {
		a.log.Debug().Str("file", a.v.ConfigFileUsed()).Msg("using config file")
	}
	return nil
}

// optimus builds an Optimus from the configured parameters.
func (a *app) optimus() (*optimus.Optimus, error) {
	cfg := optimus.Config{Prime: a.v.GetUint64("prime")}
	if cfg.Prime == 0 {
		return nil, errors.New("prime is required (--prime or " + envPrefix + "_PRIME)")
	}
	if a.v.IsSet("mod-inverse") {
		cfg.ModInverse = optimus.Uint64(a.v.GetUint64("mod-inverse"))
	}
	if a.v.IsSet("random") {
		cfg.Random = optimus.Uint64(a.v.GetUint64("random"))
	} else {
		a.log.Warn().Msg("no random mask configured, drawing one; encoded values will not be reproducible")
	}
	o, err := optimus.New(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "build optimus")
	}
	a.log.Debug().
		Uint64("prime", o.Prime()).
		Uint64("mod_inverse", o.ModInverse()).
		Uint64("random", o.Random()).
		Msg("optimus ready")
	return o, nil
}
