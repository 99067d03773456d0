package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/vipstarcoin/vipswallet/internal/config"
	"github.com/vipstarcoin/vipswallet/internal/core/application"
	"github.com/vipstarcoin/vipswallet/internal/core/ports"
	dbbadger "github.com/vipstarcoin/vipswallet/internal/infrastructure/storage/db/badger"
	dbfile "github.com/vipstarcoin/vipswallet/internal/infrastructure/storage/db/file"
	"github.com/vipstarcoin/vipswallet/pkg/explorer"
	"github.com/vipstarcoin/vipswallet/pkg/explorer/insight"
	"github.com/vipstarcoin/vipswallet/pkg/vault"
)

var (
	networkFlag = &cli.StringFlag{
		Name:  "network",
		Usage: "the network to use: mainnet, testnet or regtest",
	}
	datadirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "the directory where the wallet is stored",
	}
	dbFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "the storage backend: json or badger",
	}
	metricsFlag = &cli.BoolFlag{
		Name:  "metrics",
		Usage: "print the provider metrics to stderr once done",
	}
	passwordFlag = &cli.StringFlag{
		Name:  "password",
		Usage: "the password used to encrypt the wallet secrets",
	}
	accountFlag = &cli.StringFlag{
		Name:  "account",
		Usage: "the label of the account, the default one if empty",
	}

	metricsRegistry = prometheus.NewRegistry()
)

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.0.1"
	app.Name = "vipswallet"
	app.Usage = "HD wallet for the VIPSTARCOIN network"
	app.Flags = []cli.Flag{networkFlag, datadirFlag, dbFlag, metricsFlag}
	app.Commands = append(
		app.Commands,
		&genseed,
		&initwallet,
		&changepassword,
		&createaccount,
		&listaccounts,
		&setdefault,
		&syncwallet,
		&balance,
		&receive,
		&send,
		&sendtoken,
		&signmessage,
		&verifymessage,
		&tokeninfo,
	)
	app.After = printMetrics

	return app
}

// getWalletService loads the config and wires the wallet service together
// with the storage and the chain provider.
func getWalletService(ctx *cli.Context) (application.WalletService, func(), error) {
	overrides := make(map[string]interface{})
	for key, flag := range map[string]*cli.StringFlag{
		config.NetworkKey: networkFlag,
		config.DatadirKey: datadirFlag,
		config.DBTypeKey:  dbFlag,
	} {
		if ctx.IsSet(flag.Name) {
			overrides[key] = ctx.String(flag.Name)
		}
	}
	if err := config.InitConfig(overrides); err != nil {
		return nil, nil, err
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	net := config.GetNetwork()
	registry := explorer.NewRegistry(net)
	registry.Register(insight.Name, insight.NewFactory(insight.Opts{
		Endpoints:  config.GetApiEndpoints(),
		Timeout:    config.GetApiTimeout(),
		MaxRetries: uint64(config.GetInt(config.ApiMaxRetriesKey)),
		RateLimit:  config.GetInt(config.ApiRateLimitKey),
		Registerer: metricsRegistry,
	}))

	repo, err := getWalletRepository()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := repo.Close(); err != nil {
			log.WithError(err).Warn("error while closing wallet db")
		}
	}

	svc := application.NewWalletService(repo, vault.Options{
		Network:  net,
		Resolver: registry,
		Scheme:   config.GetScheme(),
		Discovery: vault.DiscoveryOpts{
			GapLimit:   uint32(config.GetInt(config.GapLimitKey)),
			MaxWindows: config.GetInt(config.MaxDiscoveryWindowsKey),
		},
	})
	return svc, cleanup, nil
}

func getWalletRepository() (ports.WalletRepository, error) {
	dbDir := config.GetDbDir()
	if config.GetString(config.DBTypeKey) == config.DBBadger {
		dbManager, err := dbbadger.NewDbManager(dbDir, log.StandardLogger())
		if err != nil {
			return nil, err
		}
		return dbbadger.NewWalletRepository(dbManager, dbbadger.DefaultWalletName), nil
	}
	return dbfile.NewWalletRepository(dbDir)
}

func printRespJSON(resp interface{}) {
	jsonStr, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}

	fmt.Println(string(jsonStr))
}

func printMetrics(ctx *cli.Context) error {
	if !ctx.Bool(metricsFlag.Name) {
		return nil
	}

	families, err := metricsRegistry.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := ""
			for _, l := range metric.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", l.GetName(), l.GetValue())
			}
			fmt.Fprintf(
				os.Stderr, "%s%s %v\n",
				family.GetName(), labels, metric.GetCounter().GetValue(),
			)
		}
	}
	return nil
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[vipswallet] %v\n", err)
	}
	os.Exit(1)
}
