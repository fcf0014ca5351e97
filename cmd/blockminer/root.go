package main

import (
	"io"
	"os"
	"strings"

	"github.com/SummerOfBitcoin/code-challenge-2024-Mirebella/node"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "BLOCKMINER"

type rootOptions struct {
	configFile string
	envFile    string
	v          *viper.Viper
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{v: viper.New()}
	cmd := &cobra.Command{
		Use:           "blockminer",
		Short:         "Assemble and mine a candidate block from a transaction pool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "config file (json, yaml, toml, ...)")
	pf.StringVar(&opts.envFile, "env-file", ".env", "dotenv file with "+envPrefix+"_* overrides; ignored when absent")
	pf.String("log-level", node.DefaultConfig().LogLevel, "log level: debug|info|warn|error")
	bindFlags(opts.v, pf, map[string]string{"log_level": "log-level"})

	cmd.AddCommand(
		newMineCmd(opts),
		newPoolCmd(opts),
		newAddressCmd(),
		newVersionCmd(),
	)
	return cmd
}

func setDefaults(v *viper.Viper) {
	d := node.DefaultConfig()
	v.SetDefault("previous_block_ref", d.PreviousBlockRef)
	v.SetDefault("target_difficulty", d.TargetDifficulty)
	v.SetDefault("block_time", d.BlockTime)
	v.SetDefault("reward_amount", d.RewardAmount)
	v.SetDefault("reward_address", d.RewardAddress)
	v.SetDefault("merkle_convention", d.MerkleConvention)
	v.SetDefault("pool_dir", d.PoolDir)
	v.SetDefault("pool_db", d.PoolDB)
	v.SetDefault("output_path", d.OutputPath)
	v.SetDefault("archive_path", d.ArchivePath)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("report_interval", d.ReportInterval)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("metrics_addr", d.MetricsAddr)
	v.SetDefault("progress", d.Progress)
}

// bindFlags ties config keys to flag names. A flag only overrides the lower
// layers when it is set on the command line.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if f := fs.Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// loadConfig layers defaults, the config file, the dotenv file, the
// environment and flags, lowest to highest.
func (o *rootOptions) loadConfig() (node.Config, error) {
	var cfg node.Config
	v := o.v
	setDefaults(v)

	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return cfg, usageError{errors.Wrapf(err, "read config %s", o.configFile)}
		}
	}
	if err := mergeDotenv(v, o.envFile); err != nil {
		return cfg, usageError{err}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return cfg, usageError{errors.Wrap(err, "decode config")}
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if err := node.ValidateConfig(cfg); err != nil {
		return cfg, usageError{errors.Wrap(err, "invalid config")}
	}
	return cfg, nil
}

func mergeDotenv(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "stat %s", path)
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	overrides := make(map[string]any)
	for k, val := range vars {
		if key, ok := strings.CutPrefix(k, envPrefix+"_"); ok && key != "" {
			overrides[strings.ToLower(key)] = val
		}
	}
	if len(overrides) == 0 {
		return nil
	}
	return v.MergeConfigMap(overrides)
}
