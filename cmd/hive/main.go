package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hivewallet/hive-core/internal/config"
	"github.com/hivewallet/hive-core/internal/core/application"
	"github.com/hivewallet/hive-core/internal/core/domain"
	"github.com/hivewallet/hive-core/internal/core/ports"
	"github.com/hivewallet/hive-core/pkg/stats"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const statsInterval = time.Minute

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "hive"
	app.Usage = "Command line interface of the hive wallet core"
	app.Before = func(*cli.Context) error {
		if err := config.InitConfig(); err != nil {
			return err
		}
		log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
		return nil
	}
	app.Commands = append(
		app.Commands,
		&create,
		&open,
		&history,
		&validatesend,
		&resetpin,
		&disablepin,
		&exists,
		&reset,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

// withWalletService builds the wallet core, runs the given action and
// releases everything once done. Lifecycle events are logged while the
// action runs.
func withWalletService(
	ctx *cli.Context, action func(*application.WalletService) error,
) error {
	appConfig := config.AppConfig()
	if err := appConfig.Validate(); err != nil {
		return err
	}
	defer appConfig.Close()

	if config.GetBool(config.EnableProfilerKey) {
		statsCtx, cancel := context.WithCancel(ctx.Context)
		defer cancel()
		stats.EnableMemoryStatistics(
			statsCtx, statsInterval,
			filepath.Join(config.GetDatadir(), config.ProfilerLocation),
		)
	}

	sub, err := appConfig.PubSubService().Subscribe(ports.AnyTopic)
	if err != nil {
		return err
	}
	go logEvents(sub)

	svc, err := appConfig.WalletService(ctx.Context)
	if err != nil {
		return err
	}
	return action(svc)
}

func logEvents(sub ports.Subscription) {
	for e := range sub.Events() {
		// Init and auth events carry secrets.
		log.WithField("topic", e.Topic).Debug("wallet event")
		if opening, ok := e.Payload.(domain.WalletOpeningEvent); ok {
			log.Info(opening.Message)
		}
	}
}

func printJSON(resp interface{}) {
	buf, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}
	fmt.Println(string(buf))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[hive] %v\n", err)
	os.Exit(1)
}
