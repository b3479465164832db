package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/oklog/run"

	"github.com/cbrgm/mtg-bot/display"
	"github.com/cbrgm/mtg-bot/metrics"
	"github.com/cbrgm/mtg-bot/mtgio"
	"github.com/cbrgm/mtg-bot/telegram"
)

const (
	levelDebug = "debug"
	levelInfo  = "info"
	levelWarn  = "warn"
	levelError = "error"
)

var (
	// Version of mtg-bot.
	Version string
	// Revision or Commit this binary was built from.
	Revision string
	// GoVersion running this binary.
	GoVersion = runtime.Version()
	// StartTime has the time this was started.
	StartTime = time.Now()
)

var cli struct {
	LogLevel    string `name:"log.level" default:"info" enum:"error,warn,info,debug" help:"The log level to use for filtering logs"`
	APIEndpoint string `name:"api.endpoint" env:"MTG_API_ENDPOINT" default:"" help:"Override the card catalog API endpoint"`

	Card   cardCmd   `cmd:"" help:"Fetch a card by its multiverse id and print it"`
	Search searchCmd `cmd:"" help:"Search cards by their exact name and print every match"`
	Page   pageCmd   `cmd:"" help:"Fetch one page of the card listing"`
	Bot    botCmd    `cmd:"" help:"Run the Telegram bot and metrics webserver"`
}

type cardCmd struct {
	ID string `arg:"" optional:"" default:"386616" help:"The multiverse id of the card to fetch"`
}

type searchCmd struct {
	Name string `arg:"" help:"The exact card name to search for"`
}

type pageCmd struct {
	Number uint64 `arg:"" help:"The page number to fetch"`
}

type botCmd struct {
	HttpAddr string `name:"http.addr" default:"0.0.0.0:8080" help:"The address the mtg-bot metrics are exposed"`

	cliTelegram
	cliMetrics
}

type cliMetrics struct {
	EnableProfiling      bool   `name:"metrics.profile" default:"true" help:"Enable pprof profiling"`
	EnableRuntimeMetrics bool   `name:"metrics.runtime" default:"true" help:"Enable bot runtime metrics"`
	EnableMetrics        bool   `name:"metrics.enabled" default:"true" help:"Enable bot metrics"`
	MetricsPrefix        string `name:"metrics.prefix" default:"" help:"Set metrics prefix path"`
}

type cliTelegram struct {
	Admins []int  `name:"telegram.admin" help:"The ID of the initial Telegram Admin"`
	Token  string `required:"true" name:"telegram.token" env:"TELEGRAM_TOKEN" help:"The token used to connect with Telegram"`
}

// app carries the shared dependencies into the subcommands.
type app struct {
	logger log.Logger
	cards  *mtgio.MTGClient
}

func newCatalogClient(logger log.Logger, m mtgio.Metrics) *mtgio.MTGClient {
	clientOpts := []mtgio.ClientOptions{}
	if cli.APIEndpoint != "" {
		clientOpts = append(clientOpts, mtgio.WithAPIEndpoint(cli.APIEndpoint))
	}
	return mtgio.NewMTGClient(
		mtgio.WithClient(mtgio.NewClient(clientOpts...)),
		mtgio.WithLogger(log.With(logger, "component", "mtgio")),
		mtgio.WithMetrics(m),
	)
}

func (c *cardCmd) Run(a *app) error {
	result, err := a.cards.CardByID(context.Background(), c.ID)
	if err != nil {
		fmt.Printf("All is not good?\n%#v\n", err)
		return nil
	}
	fmt.Printf("\n%s", display.Card(result.Card))
	return nil
}

func (c *searchCmd) Run(a *app) error {
	list, err := a.cards.CardsByName(context.Background(), c.Name)
	if err != nil {
		fmt.Printf("All is not good?\n%#v\n", err)
		return nil
	}
	for _, card := range list.Cards {
		fmt.Printf("\n%s", display.Card(card))
	}
	return nil
}

func (c *pageCmd) Run(a *app) error {
	list, header, err := a.cards.CardsByPageWithHeader(context.Background(), c.Number)
	if err != nil {
		fmt.Printf("All is not good?\n%#v\n", err)
		return nil
	}
	fmt.Printf("page %d: %d of %d cards, ratelimit %d/%d\n",
		c.Number, header.Count, header.TotalCount,
		header.RatelimitRemaining, header.RatelimitLimit,
	)
	for _, card := range list.Cards {
		fmt.Printf("\n%s", display.Card(card))
	}
	return nil
}

func (c *botCmd) Run(a *app) error {
	metricOptions := metrics.Options{
		Enabled:              c.EnableMetrics,
		Prefix:               c.MetricsPrefix,
		EnableProfile:        c.EnableProfiling,
		EnableRuntimeMetrics: c.EnableRuntimeMetrics,
	}

	prom := metrics.NewPrometheus(metricOptions)
	cards := newCatalogClient(a.logger, prom)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var gr run.Group
	{
		tlogger := log.With(a.logger, "component", "telegram")

		bot, err := telegram.NewBot(cards, c.Token,
			telegram.WithLogger(tlogger),
			telegram.WithMetrics(prom),
			telegram.WithAllowlist(c.Admins...),
			telegram.WithStartTime(StartTime),
			telegram.WithRevision(Revision),
		)
		if err != nil {
			level.Error(tlogger).Log("msg", "failed to initialize telegram bot", "err", err)
			os.Exit(2)
		}

		gr.Add(func() error {
			level.Info(tlogger).Log(
				"msg", "starting mtg bot",
				"version", Version,
				"revision", Revision,
				"goVersion", GoVersion,
			)
			return bot.Run(ctx)
		}, func(err error) {
			cancel()
		})
	}
	{
		wlogger := log.With(a.logger, "component", "webserver")
		handleHealth := func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}

		m := http.NewServeMux()
		if metricOptions.Enabled {
			m.Handle("/metrics", metrics.HandlerFor(prom, metricOptions))
		}
		m.HandleFunc("/health", handleHealth)
		m.HandleFunc("/healthz", handleHealth)

		s := http.Server{
			Addr:    c.HttpAddr,
			Handler: m,
		}

		gr.Add(func() error {
			level.Info(wlogger).Log("msg", "starting webserver", "addr", c.HttpAddr)
			return s.ListenAndServe()
		}, func(err error) {
			_ = s.Shutdown(context.Background())
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		gr.Add(func() error {
			<-sig
			return nil
		}, func(err error) {
			cancel()
			close(sig)
		})
	}

	return gr.Run()
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("mtg-bot"),
	)

	levelFilter := map[string]level.Option{
		levelError: level.AllowError(),
		levelWarn:  level.AllowWarn(),
		levelInfo:  level.AllowInfo(),
		levelDebug: level.AllowDebug(),
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, levelFilter[cli.LogLevel])
	logger = log.With(logger,
		"ts", log.DefaultTimestampUTC,
		"caller", log.DefaultCaller,
	)

	a := &app{
		logger: logger,
		cards:  newCatalogClient(logger, metrics.NewDefaultPrometheus()),
	}

	if err := ctx.Run(a); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
