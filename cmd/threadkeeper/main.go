package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/avelin/threadkeeper/internal/appconfig"
	"github.com/avelin/threadkeeper/internal/assetcache"
	"github.com/avelin/threadkeeper/internal/clierr"
	"github.com/avelin/threadkeeper/internal/downloader"
	"github.com/avelin/threadkeeper/internal/project"
	"github.com/avelin/threadkeeper/internal/resolver"
	"github.com/avelin/threadkeeper/internal/uievents"
	"github.com/avelin/threadkeeper/internal/update"
	"github.com/avelin/threadkeeper/internal/watchloop"
)

func main() {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var cancel uievents.CancelFlag
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel.Cancel()
		stop()
	}()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(clierr.KindArgument.ExitCode())
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "grab":
		err = runGrab(ctx, args, &cancel)
	case "rebuild":
		err = runRebuild(ctx, args, &cancel)
	case "watch":
		err = runWatch(ctx, args, &cancel)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(clierr.KindArgument.ExitCode())
	}

	if err != nil {
		ce, ok := err.(*clierr.CommandError)
		if !ok {
			ce = clierr.Wrap(clierr.KindRuntime, err)
		}
		fmt.Fprintln(os.Stderr, ce.Error())
		os.Exit(ce.Kind.ExitCode())
	}
}

func printUsage() {
	fmt.Println("Usage: threadkeeper <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  grab <url>                fetch one snapshot and merge it into the project")
	fmt.Println("  rebuild <path>            replay a project's snapshots from scratch")
	fmt.Println("  watch <url> [--interval]  poll a thread until it is archived or cancelled")
	fmt.Println()
	fmt.Println("Common flags:")
	fmt.Println("  --config-path <path>  override the app preferences file")
	fmt.Println("  --format v2|v3        project format for new projects (v3 only; v2 is load-only)")
	fmt.Println("  --path <dir>          explicit project directory instead of one derived from the resolved site")
	fmt.Println()
	fmt.Println("watch flags:")
	fmt.Println("  --interval <secs>     polling interval (default 60)")
	fmt.Println("  --max-retries <n>     give up after n consecutive transport failures (default 0, retry forever)")
}

type commonFlags struct {
	configPath string
	format     string
	path       string
}

func parseCommon(fs *flag.FlagSet, args []string) (commonFlags, []string, error) {
	var c commonFlags
	fs.StringVar(&c.configPath, "config-path", "", "override the app preferences file path")
	fs.StringVar(&c.format, "format", "", "project format for new projects (v3 only; defaults to the app config's format)")
	fs.StringVar(&c.path, "path", "", "explicit project directory instead of one derived from the resolved site")
	if err := fs.Parse(args); err != nil {
		return commonFlags{}, nil, clierr.Wrap(clierr.KindArgument, err)
	}
	return c, fs.Args(), nil
}

// resolveFormat returns the explicit --format flag value, or the app
// config's default format if the flag wasn't given.
func resolveFormat(flagValue string, appCfg appconfig.Config) string {
	if flagValue != "" {
		return flagValue
	}
	return appCfg.Format
}

func loadAppConfig(configPath string) (appconfig.Config, error) {
	if configPath == "" {
		p, err := appconfig.DefaultPath()
		if err != nil {
			return appconfig.Config{}, clierr.Wrap(clierr.KindConfig, err)
		}
		configPath = p
	}
	cfg, err := appconfig.Load(configPath)
	if err != nil {
		return appconfig.Config{}, clierr.Wrap(clierr.KindConfig, err)
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func buildSiteResolver(fs afero.Fs, logger *slog.Logger) (*resolver.Resolver, error) {
	home, err := os.UserConfigDir()
	if err != nil {
		return resolver.New(nil)
	}
	sitesPath := home + "/threadkeeper/sites.toml"
	return resolver.Load(fs, sitesPath)
}

// openAssetCache opens p's asset-metadata BoltDB, if its format supports
// one. Returns a nil cache (and no error) for formats that don't.
func openAssetCache(p *project.Project) (*assetcache.Cache, error) {
	path, ok := p.AssetCachePath()
	if !ok {
		return nil, nil
	}
	return assetcache.Open(path)
}

func runGrab(ctx context.Context, args []string, cancel *uievents.CancelFlag) error {
	fs := flag.NewFlagSet("grab", flag.ContinueOnError)
	common, rest, err := parseCommon(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return clierr.New(clierr.KindArgument, "grab: expected exactly one <url> argument")
	}
	rawURL := rest[0]

	appCfg, err := loadAppConfig(common.configPath)
	if err != nil {
		return err
	}

	if resolveFormat(common.format, appCfg) == "v2" {
		return clierr.New(clierr.KindArgument, "grab: v2 is a legacy load-only format and cannot be used to create a project")
	}

	logger := newLogger(appCfg.LogLevel)
	osFs := afero.NewOsFs()

	res, err := buildSiteResolver(osFs, logger)
	if err != nil {
		return clierr.Wrap(clierr.KindConfig, err)
	}

	builder := project.NewCreateProjectBuilder(osFs, rawURL).
		WithResolver(res).
		WithDownloadRoot(appCfg.DownloadRoot)
	if common.path != "" {
		builder = builder.WithPath(common.path)
	}

	p, err := builder.LoadOrCreate()
	if err != nil {
		return clierr.Wrap(clierr.KindRuntime, err)
	}
	defer p.Release()

	cache, err := openAssetCache(p)
	if err != nil {
		return clierr.Wrap(clierr.KindRuntime, err)
	}
	if cache != nil {
		defer cache.Close()
	}

	handler := uievents.NewSlogHandler(logger, cancel)
	d := downloader.New(&http.Client{Timeout: 2 * time.Minute}, osFs, cache, logger)

	if _, err := update.Tick(ctx, d, p, handler); err != nil {
		return clierr.Wrap(clierr.KindRuntime, err)
	}
	if err := p.Save(); err != nil {
		return clierr.Wrap(clierr.KindRuntime, err)
	}

	return nil
}

func runRebuild(ctx context.Context, args []string, cancel *uievents.CancelFlag) error {
	fs := flag.NewFlagSet("rebuild", flag.ContinueOnError)
	common, rest, err := parseCommon(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return clierr.New(clierr.KindArgument, "rebuild: expected exactly one <path> argument")
	}

	appCfg, err := loadAppConfig(common.configPath)
	if err != nil {
		return err
	}
	logger := newLogger(appCfg.LogLevel)
	osFs := afero.NewOsFs()

	p, err := project.Load(osFs, rest[0])
	if err != nil {
		return clierr.Wrap(clierr.KindRuntime, err)
	}
	defer p.Release()

	handler := uievents.NewSlogHandler(logger, cancel)
	if _, err := project.Rebuild(p, handler); err != nil {
		return clierr.Wrap(clierr.KindRuntime, err)
	}

	return nil
}

func runWatch(ctx context.Context, args []string, cancel *uievents.CancelFlag) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	interval := fs.Int("interval", 60, "polling interval in seconds")
	maxFailures := fs.Int("max-retries", 0, "give up after this many consecutive transport failures (0 = retry forever)")
	common, rest, err := parseCommon(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return clierr.New(clierr.KindArgument, "watch: expected exactly one <url> argument")
	}
	rawURL := rest[0]

	appCfg, err := loadAppConfig(common.configPath)
	if err != nil {
		return err
	}

	if resolveFormat(common.format, appCfg) == "v2" {
		return clierr.New(clierr.KindArgument, "watch: v2 is a legacy load-only format and cannot be used to create a project")
	}

	logger := newLogger(appCfg.LogLevel)
	osFs := afero.NewOsFs()

	res, err := buildSiteResolver(osFs, logger)
	if err != nil {
		return clierr.Wrap(clierr.KindConfig, err)
	}

	builder := project.NewCreateProjectBuilder(osFs, rawURL).
		WithResolver(res).
		WithDownloadRoot(appCfg.DownloadRoot)
	if common.path != "" {
		builder = builder.WithPath(common.path)
	}

	p, err := builder.LoadOrCreate()
	if err != nil {
		return clierr.Wrap(clierr.KindRuntime, err)
	}
	defer p.Release()

	cache, err := openAssetCache(p)
	if err != nil {
		return clierr.Wrap(clierr.KindRuntime, err)
	}
	if cache != nil {
		defer cache.Close()
	}

	handler := uievents.NewSlogHandler(logger, cancel)
	d := downloader.New(&http.Client{Timeout: 2 * time.Minute}, osFs, cache, logger)

	if err := watchloop.Run(ctx, d, p, time.Duration(*interval)*time.Second, handler, *maxFailures); err != nil {
		var tf *watchloop.TransportFailureError
		if errors.As(err, &tf) {
			return clierr.Wrap(clierr.KindTransport, err)
		}
		return clierr.Wrap(clierr.KindRuntime, err)
	}

	return nil
}
