package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ace2go/ace2/control"
	"github.com/ace2go/ace2/inventory"
)

func newInfoCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print panel model, firmware, and protocol details",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := env.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(client.Panel)
		},
	}
}

func newMonitorCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Connect and print change-of-state events until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := env.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.RefreshAll(cmd.Context()); err != nil {
				env.logger.Warn("initial refresh failed", "error", err)
			}

			enc := json.NewEncoder(os.Stdout)
			client.OnChange(func(ev inventory.ChangeEvent) {
				_ = enc.Encode(ev)
			})

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-sig:
			case <-cmd.Context().Done():
			}
			return nil
		},
	}
}

func newArmCmd(env *cmdEnv) *cobra.Command {
	var setType string
	var force bool
	var areas []int

	cmd := &cobra.Command{
		Use:   "arm",
		Short: "Arm one or more areas",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := env.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			return client.Arm(cmd.Context(), areaBitmap(areas), control.SetType(setType), force)
		},
	}
	cmd.Flags().StringVar(&setType, "set", string(control.Full), "area set: full, part1, or part2")
	cmd.Flags().BoolVar(&force, "force", false, "force-arm past faults/active zones/inhibits")
	cmd.Flags().IntSliceVar(&areas, "area", nil, "area number to arm (repeatable); defaults to all areas")
	return cmd
}

func newDisarmCmd(env *cmdEnv) *cobra.Command {
	var areas []int

	cmd := &cobra.Command{
		Use:   "disarm",
		Short: "Disarm one or more areas",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := env.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			return client.Disarm(cmd.Context(), areaBitmap(areas))
		},
	}
	cmd.Flags().IntSliceVar(&areas, "area", nil, "area number to disarm (repeatable); defaults to all areas")
	return cmd
}

// newListCmd builds the read-only "zones"/"areas"/"outputs"/"triggers"/
// "doors" commands: connect, refresh, print the cached inventory as JSON.
func newListCmd(env *cmdEnv, use, short string) *cobra.Command {
	kind := inventory.Kind(singularKind(use))
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := env.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.RefreshAll(cmd.Context()); err != nil {
				return err
			}

			inv := client.Inventory()
			type entry struct {
				ID    int                 `json:"id"`
				Name  string              `json:"name,omitempty"`
				State map[string]bool     `json:"state,omitempty"`
			}
			var out []entry
			for _, id := range inv.KnownIDs(kind) {
				e := entry{ID: id}
				e.Name, _ = inv.Name(kind, id)
				if s, ok := inv.State(kind, id); ok {
					e.State = s.Flags
				}
				out = append(out, e)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func singularKind(use string) string {
	switch use {
	case "zones":
		return string(inventory.Zone)
	case "areas":
		return string(inventory.Area)
	case "outputs":
		return string(inventory.Output)
	case "triggers":
		return string(inventory.Trigger)
	case "doors":
		return string(inventory.Door)
	default:
		return use
	}
}

func areaBitmap(areas []int) []byte {
	bitmap := make([]byte, 4)
	if len(areas) == 0 {
		for i := range bitmap {
			bitmap[i] = 0xFF
		}
		return bitmap
	}
	for _, a := range areas {
		if a < 1 || a > 32 {
			continue
		}
		idx := (a - 1) / 8
		bit := (a - 1) % 8
		bitmap[idx] |= 1 << uint(bit)
	}
	return bitmap
}

// entityVerbCmd builds a single-argument (zone/output/trigger/door number)
// verb command.
func entityVerbCmd(use, short string, run func(ctx context.Context, client verbClient, n int) error, env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <number>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid number %q: %w", args[0], err)
			}
			client, err := env.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()
			return run(cmd.Context(), client, n)
		},
	}
}

// verbClient is the subset of *ace2.Client the entity verb commands need.
type verbClient interface {
	InhibitZone(ctx context.Context, zone int) error
	UninhibitZone(ctx context.Context, zone int) error
	ActivateOutput(ctx context.Context, output int) error
	DeactivateOutput(ctx context.Context, output int) error
	ActivateTrigger(ctx context.Context, trigger int) error
	DeactivateTrigger(ctx context.Context, trigger int) error
	LockDoor(ctx context.Context, door int) error
	UnlockDoorStandard(ctx context.Context, door int) error
	UnlockDoorTimed(ctx context.Context, door, seconds int) error
	DisableDoor(ctx context.Context, door int) error
	EnableDoor(ctx context.Context, door int) error
}

func newInhibitCmd(env *cmdEnv) *cobra.Command {
	return entityVerbCmd("inhibit", "Inhibit a zone", func(ctx context.Context, c verbClient, n int) error {
		return c.InhibitZone(ctx, n)
	}, env)
}

func newUninhibitCmd(env *cmdEnv) *cobra.Command {
	return entityVerbCmd("uninhibit", "Restore an inhibited zone", func(ctx context.Context, c verbClient, n int) error {
		return c.UninhibitZone(ctx, n)
	}, env)
}

func newActivateCmd(env *cmdEnv) *cobra.Command {
	return entityVerbCmd("activate", "Activate an output", func(ctx context.Context, c verbClient, n int) error {
		return c.ActivateOutput(ctx, n)
	}, env)
}

func newDeactivateCmd(env *cmdEnv) *cobra.Command {
	return entityVerbCmd("deactivate", "Deactivate an output", func(ctx context.Context, c verbClient, n int) error {
		return c.DeactivateOutput(ctx, n)
	}, env)
}

func newTriggerActivateCmd(env *cmdEnv) *cobra.Command {
	return entityVerbCmd("trigger-activate", "Fire a software trigger", func(ctx context.Context, c verbClient, n int) error {
		return c.ActivateTrigger(ctx, n)
	}, env)
}

func newTriggerDeactivateCmd(env *cmdEnv) *cobra.Command {
	return entityVerbCmd("trigger-deactivate", "Clear a software trigger", func(ctx context.Context, c verbClient, n int) error {
		return c.DeactivateTrigger(ctx, n)
	}, env)
}

func newDoorLockCmd(env *cmdEnv) *cobra.Command {
	return entityVerbCmd("door-lock", "Lock a door", func(ctx context.Context, c verbClient, n int) error {
		return c.LockDoor(ctx, n)
	}, env)
}

func newDoorUnlockCmd(env *cmdEnv) *cobra.Command {
	return entityVerbCmd("door-unlock", "Unlock a door for its standard period (same request as door-unlock-standard; no indefinite unlock is sent)", func(ctx context.Context, c verbClient, n int) error {
		return c.UnlockDoorStandard(ctx, n)
	}, env)
}

func newDoorUnlockStandardCmd(env *cmdEnv) *cobra.Command {
	return entityVerbCmd("door-unlock-standard", "Unlock a door for its standard period", func(ctx context.Context, c verbClient, n int) error {
		return c.UnlockDoorStandard(ctx, n)
	}, env)
}

func newDoorUnlockTimedCmd(env *cmdEnv) *cobra.Command {
	var seconds int
	cmd := entityVerbCmd("door-unlock-timed", "Unlock a door for a specific duration", func(ctx context.Context, c verbClient, n int) error {
		return c.UnlockDoorTimed(ctx, n, seconds)
	}, env)
	cmd.Flags().IntVar(&seconds, "seconds", 10, "unlock duration in seconds")
	return cmd
}

func newDoorDisableCmd(env *cmdEnv) *cobra.Command {
	return entityVerbCmd("door-disable", "Disable a door's lock", func(ctx context.Context, c verbClient, n int) error {
		return c.DisableDoor(ctx, n)
	}, env)
}

func newDoorEnableCmd(env *cmdEnv) *cobra.Command {
	return entityVerbCmd("door-enable", "Re-enable a door's lock", func(ctx context.Context, c verbClient, n int) error {
		return c.EnableDoor(ctx, n)
	}, env)
}

func newEventLogCmd(env *cmdEnv) *cobra.Command {
	var maxEvents int
	cmd := &cobra.Command{
		Use:   "eventLog",
		Short: "Read the panel's event log",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := env.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			records, err := client.EventLog(ctx, maxEvents)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		},
	}
	cmd.Flags().IntVar(&maxEvents, "max", 100, "maximum number of entries to read (0 reads until the log end)")
	return cmd
}
