package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/peterbourgon/ff/v4/ffyaml"

	"fragboard/internal/logging"
)

const defaultIdleTimeout = 5 * time.Minute

type config struct {
	Token     string
	ChannelID string
	Database  string
	DataDir   string

	IdleTimeout time.Duration

	loggingOptions logging.Options

	Version bool
}

// parse sets config in order of precedence: 1. flags > 2. env vars >
// 3. config file.
func parse(stderr io.Writer, args []string) (config, error) {
	var cfg config

	home, err := os.UserHomeDir()
	if err != nil {
		return config{}, fmt.Errorf("retrieving user's home directory: %w", err)
	}
	defaultDataDir := filepath.Join(home, ".fragboard")
	defaultConfigFile := filepath.Join(home, ".fragboard.yaml")

	fs := ff.NewFlagSet("fragboard")
	fs.StringVar(&cfg.Token, 't', "token", "", "Discord bot token.")
	fs.StringVar(&cfg.ChannelID, 'c', "channel", "", "ID of the channel hosting the panel.")
	fs.StringVar(&cfg.Database, 0, "db", "", "Path to the statistics database. Defaults to <data-dir>/stats.db.")
	fs.StringVar(&cfg.DataDir, 0, "data-dir", defaultDataDir, "Directory in which to store panel state.")
	idle := fs.String(0, "idle-timeout", defaultIdleTimeout.String(), "Idle duration after which the panel resets to the home view.")
	fs.BoolVar(&cfg.Version, 'v', "version", "Print version.")
	_ = fs.String(0, "config", defaultConfigFile, "Path to config file.")

	{
		usage := fmt.Sprintf("Logging level (valid: %s).", strings.Join(logging.ValidLevels(), ","))
		fs.StringEnumVar(&cfg.loggingOptions.Level, 'l', "log-level", usage, logging.ValidLevels()...)
	}

	err = ff.Parse(fs, args,
		ff.WithEnvVarPrefix("FRAGBOARD"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ffyaml.Parse),
		ff.WithConfigAllowMissingFile(),
	)
	if err != nil {
		// ff.Parse returns an error if there is an error or if -h/--help is
		// passed; in either case print flag usage in addition to error
		// message.
		fmt.Fprintln(stderr, ffhelp.Flags(fs))
		return config{}, err
	}

	// Perform any conversions from the flag parsed primitive types.
	cfg.IdleTimeout, err = time.ParseDuration(*idle)
	if err != nil {
		return config{}, fmt.Errorf("parsing idle-timeout: %w", err)
	}
	if cfg.Database == "" {
		cfg.Database = filepath.Join(cfg.DataDir, "stats.db")
	}

	return cfg, nil
}

func (c config) validate() error {
	if c.Version {
		return nil
	}
	if c.Token == "" {
		return errors.New("a bot token is required (--token or FRAGBOARD_TOKEN)")
	}
	if c.ChannelID == "" {
		return errors.New("a panel channel is required (--channel or FRAGBOARD_CHANNEL)")
	}
	return nil
}
