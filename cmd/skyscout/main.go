package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/bootstrap"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/cliconfig"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

// flagValues holds raw flag input; only flags set on the command line are
// copied into the config
type flagValues struct {
	dbType     string
	dbPath     string
	geocoder   string
	language   string
	platform   string
	permission string
	geolocator string
	lat        float64
	lon        float64
	store      string
	stateDir   string
	debounce   time.Duration
	minLength  int
}

// cli is the state shared by all subcommands
type cli struct {
	cfg     *config.Config
	cfgPath string
	verbose bool
	flags   flagValues

	logger *zap.Logger
	stack  *bootstrap.Stack
	out    io.Writer
	in     io.Reader
}

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &cli{cfg: cfg, out: os.Stdout, in: os.Stdin}
	if err := c.rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "skyscout",
		Short:        "Weather for where you are, or for the city you pick",
		Version:      fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.teardown()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgPath, "config", "", "Config file (default $HOME/.skyscout/config.toml)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "Log debug output to stderr")
	pf.StringVar(&c.flags.dbType, "db-type", "", "Database: memory, sqlite or postgres")
	pf.StringVar(&c.flags.dbPath, "db-path", "", "SQLite database file")
	pf.StringVar(&c.flags.geocoder, "geocoder", "", "City search backend: openmeteo or local")
	pf.StringVar(&c.flags.language, "language", "", "Language of search results")
	pf.StringVar(&c.flags.platform, "platform", "", "Permission flavour: ios or android")
	pf.StringVar(&c.flags.permission, "permission", "", "Location permission: granted, denied or prompt")
	pf.StringVar(&c.flags.geolocator, "geolocator", "", "Position source: ip or static")
	pf.Float64Var(&c.flags.lat, "lat", 0, "Latitude for the static geolocator")
	pf.Float64Var(&c.flags.lon, "lon", 0, "Longitude for the static geolocator")
	pf.StringVar(&c.flags.store, "store", "", "Where the last location is kept: file or db")
	pf.StringVar(&c.flags.stateDir, "state-dir", "", "Directory of the location file")
	pf.DurationVar(&c.flags.debounce, "debounce", 0, "Search debounce")
	pf.IntVar(&c.flags.minLength, "min-length", 0, "Minimum search query length")

	root.AddCommand(
		c.whereCmd(),
		c.refreshCmd(),
		c.setCityCmd(),
		c.weatherCmd(),
		c.searchCmd(),
	)
	return root
}

// setup resolves the configuration (flags > env > file > defaults) and wires
// the application
func (c *cli) setup(cmd *cobra.Command) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cliconfig.Defaults(c.cfg, os.LookupEnv)

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(c.cfg, fc, changed, os.LookupEnv); err != nil {
			return err
		}
	}

	c.applyFlags(changed)
	if err := cliconfig.Validate(c.cfg); err != nil {
		return err
	}

	logger, err := cliconfig.Logger(c.verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	c.logger = logger

	stack, err := bootstrap.New(cmd.Context(), c.cfg, bootstrap.Options{}, logger)
	if err != nil {
		return err
	}
	c.stack = stack
	return nil
}

func (c *cli) applyFlags(changed map[string]bool) {
	f, cfg := c.flags, c.cfg
	if changed["db-type"] {
		cfg.DB.Type = config.DBType(f.dbType)
	}
	if changed["db-path"] {
		cfg.DB.Path = f.dbPath
	}
	if changed["geocoder"] {
		cfg.Geocoding.Provider = config.GeocoderProvider(f.geocoder)
	}
	if changed["language"] {
		cfg.Geocoding.Language = f.language
	}
	if changed["platform"] {
		cfg.Location.Platform = f.platform
	}
	if changed["permission"] {
		cfg.Location.Permission = f.permission
	}
	if changed["geolocator"] {
		cfg.Location.Geolocator = f.geolocator
	}
	if changed["lat"] {
		cfg.Location.StaticLat = f.lat
	}
	if changed["lon"] {
		cfg.Location.StaticLon = f.lon
	}
	if changed["store"] {
		cfg.Location.Store = f.store
	}
	if changed["state-dir"] {
		cfg.Location.StateDir = f.stateDir
	}
	if changed["debounce"] {
		cfg.Search.Debounce = f.debounce
	}
	if changed["min-length"] {
		cfg.Search.MinQueryLength = f.minLength
	}
}

func (c *cli) teardown() {
	if c.stack != nil {
		c.stack.Close()
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
