// Package cli implements the ytstream command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/famomatic/ytstream/client"
	"github.com/famomatic/ytstream/internal/innertube"
	"github.com/famomatic/ytstream/internal/logging"
	"github.com/famomatic/ytstream/internal/types"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

const envPrefix = "YTSTREAM"

// Config keys shared by flags, environment and config file.
const (
	keyConfig      = "config"
	keyProxy       = "proxy"
	keyTimeout     = "timeout"
	keyLogLevel    = "log-level"
	keyLogJSON     = "log-json"
	keyGL          = "gl"
	keyHL          = "hl"
	keyVisitorData = "visitor-data"
	keyMetered     = "metered"
	keyNoValidate  = "no-validate"
	keyCookie      = "cookie"
	keyCookiesFile = "cookies-file"
	keySkip        = "skip-persona"
)

// Resolver is the part of *client.Client the commands use.
type Resolver interface {
	Resolve(ctx context.Context, req client.Request) (*client.PlaybackResult, error)
	Personas() []client.PersonaInfo
}

type app struct {
	v   *viper.Viper
	fs  afero.Fs
	log *logrus.Logger
	reg *prometheus.Registry

	newResolver func(client.Config) Resolver
}

// Option customizes the command tree, mostly for tests.
type Option func(*app)

func WithFs(fs afero.Fs) Option {
	return func(a *app) { a.fs = fs }
}

func WithResolverFactory(f func(client.Config) Resolver) Option {
	return func(a *app) { a.newResolver = f }
}

// NewRootCommand builds the command tree with its own viper instance.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{
		v:   viper.New(),
		fs:  afero.NewOsFs(),
		reg: prometheus.NewRegistry(),
		newResolver: func(cfg client.Config) Resolver {
			return client.New(cfg)
		},
	}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:           "ytstream",
		Short:         "Resolve playable YouTube Music stream URLs",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	registerGlobalFlags(pf)
	lo.Must0(a.v.BindPFlags(pf))

	root.AddCommand(a.resolveCommand(), a.personasCommand(), a.serveCommand())
	return root
}

func registerGlobalFlags(pf *pflag.FlagSet) {
	pf.String(keyConfig, "", "config file (default ./ytstream.yaml or $HOME/.config/ytstream/ytstream.yaml)")
	pf.String(keyProxy, "", "HTTP proxy URL for all upstream requests")
	pf.Duration(keyTimeout, client.DefaultRequestTimeout, "per-resolution timeout")
	pf.String(keyLogLevel, "warn", "log level (debug, info, warn, error)")
	pf.Bool(keyLogJSON, false, "log as JSON")
	pf.String(keyGL, innertube.DefaultLocale.GL, "content region sent upstream")
	pf.String(keyHL, innertube.DefaultLocale.HL, "interface language sent upstream")
	pf.String(keyVisitorData, "", "visitor id to use instead of scraping one")
	pf.Bool(keyMetered, false, "treat the connection as metered")
	pf.Bool(keyNoValidate, false, "accept streams without probing them")
	pf.String(keyCookie, "", "raw Cookie header for signed-in requests")
	pf.String(keyCookiesFile, "", "Netscape cookies.txt to read the Cookie header from")
	pf.StringSlice(keySkip, nil, "fallback personas to leave out, by ID or client name")
}

func (a *app) init(stderr io.Writer) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if file := a.v.GetString(keyConfig); file != "" {
		a.v.SetConfigFile(file)
	} else {
		a.v.SetConfigName("ytstream")
		a.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "ytstream"))
		}
	}
	a.v.SetFs(a.fs)
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || a.v.GetString(keyConfig) != "" {
			return fmt.Errorf("read config: %w", err)
		}
	}

	a.log = logging.New(logging.Options{
		Level:  a.v.GetString(keyLogLevel),
		JSON:   a.v.GetBool(keyLogJSON),
		Output: stderr,
	})
	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.WithField("file", used).Debug("config loaded")
	}
	return nil
}

func (a *app) clientConfig() client.Config {
	return client.Config{
		ProxyURL:          a.v.GetString(keyProxy),
		RequestTimeout:    a.v.GetDuration(keyTimeout),
		Locale:            innertube.Locale{GL: a.v.GetString(keyGL), HL: a.v.GetString(keyHL)},
		VisitorData:       a.v.GetString(keyVisitorData),
		Network:           types.StaticNetwork(a.v.GetBool(keyMetered)),
		DisableValidation: a.v.GetBool(keyNoValidate),
		SkipPersonas:      a.v.GetStringSlice(keySkip),
		Logger:            a.log,
		MetricsRegisterer: a.reg,
	}
}

// cookie returns --cookie, or the header built from --cookies-file.
func (a *app) cookie() (string, error) {
	if c := a.v.GetString(keyCookie); c != "" {
		return c, nil
	}
	path := a.v.GetString(keyCookiesFile)
	if path == "" {
		return "", nil
	}
	return cookiesFromFile(a.fs, path)
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "ytstream: %s\n", strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
