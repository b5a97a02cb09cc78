// Command acectl is a command-line client for ACE 2 (v6) alarm panels:
// connection info, live change-of-state monitoring, arm/disarm, and the
// individual zone/output/trigger/door control verbs.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ace2go/ace2/ace2"
	"github.com/ace2go/ace2/cmd/acectl/internal/config"
	"github.com/ace2go/ace2/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	v := viper.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	mc := metrics.NewNoop()

	root := &cobra.Command{
		Use:           "acectl",
		Short:         "Command-line client for ACE 2 (v6) alarm panels",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.Bind(root, v)

	env := &cmdEnv{v: v, logger: logger, metrics: mc}
	root.AddCommand(
		newInfoCmd(env),
		newMonitorCmd(env),
		newArmCmd(env),
		newDisarmCmd(env),
		newListCmd(env, "zones", "zone names, validity, and status"),
		newListCmd(env, "areas", "area names, validity, and status"),
		newListCmd(env, "outputs", "output names and status"),
		newListCmd(env, "triggers", "trigger names and status"),
		newListCmd(env, "doors", "door names and status"),
		newInhibitCmd(env),
		newUninhibitCmd(env),
		newActivateCmd(env),
		newDeactivateCmd(env),
		newTriggerActivateCmd(env),
		newTriggerDeactivateCmd(env),
		newDoorLockCmd(env),
		newDoorUnlockCmd(env),
		newDoorUnlockStandardCmd(env),
		newDoorUnlockTimedCmd(env),
		newDoorDisableCmd(env),
		newDoorEnableCmd(env),
		newEventLogCmd(env),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "acectl:", err)
		return exitCodeFor(err)
	}
	return 0
}

// exitCodeFor maps an error to the process exit code: 2 for a CLI
// configuration problem, 1 for everything else (transport/protocol/panel
// errors from the ace2 package).
func exitCodeFor(err error) int {
	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		return 2
	}
	var ace2Err *ace2.Error
	if errors.As(err, &ace2Err) {
		return 1
	}
	return 1
}

// cmdEnv carries the shared, process-wide dependencies every subcommand
// needs to connect and log.
type cmdEnv struct {
	v       *viper.Viper
	logger  *slog.Logger
	metrics *metrics.Collector
}

func (e *cmdEnv) connect(ctx context.Context) (*ace2.Client, error) {
	cfg, err := config.Load(e.v)
	if err != nil {
		return nil, err
	}
	return ace2.Connect(ctx, cfg, e.logger, e.metrics)
}
