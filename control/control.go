// Package control implements the supervised control-session state
// machine described in section 4.H: create a control context, invoke a
// verb, poll status, handle fault/active/inhibited outcomes (with
// optional forcing), and always destroy the context on exit. It applies
// to arm, disarm, inhibit, activate, and lock operations.
package control

import (
	"context"
	"time"

	"github.com/ace2go/ace2/wire"
)

// Caller is the subset of ace2.Client this package depends on. It is
// defined here (rather than imported) so control has no dependency on
// ace2 — ace2.Client satisfies this interface structurally.
type Caller interface {
	CallEncrypted(ctx context.Context, tpl wire.Template, props map[string]any, throwOnError bool) ([]byte, error)
}

// SetType names one of the three area groupings the panel polls
// independently.
type SetType string

const (
	Full  SetType = "full"
	Part1 SetType = "part1"
	Part2 SetType = "part2"
)

var armTypeByte = map[SetType]uint64{Full: 0, Part1: 1, Part2: 2}

// stateCodes are the big-endian stateId values reported by
// controlSessionStatus, per the table in section 4.H.
type stateCodes struct {
	setting, set, fault, active, inhibited uint16
}

var statesBySetType = map[SetType]stateCodes{
	Full:  {setting: 0x0504, set: 0x0505, fault: 0x0501, active: 0x0502, inhibited: 0x0503},
	Part1: {setting: 0x0404, set: 0x0405, fault: 0x0401, active: 0x0402, inhibited: 0x0403},
	Part2: {setting: 0x1004, set: 0x1005, fault: 0x1001, active: 0x1002, inhibited: 0x1003},
}

const (
	pollInterval   = 300 * time.Millisecond
	maxPolls       = 60
	forcePollBudget = 10
)

// ArmOptions configures one arm attempt.
type ArmOptions struct {
	AreaBitmap []byte // up to 4 bytes, bit per area number
	SetType    SetType
	Force      bool

	// Sleep overrides the inter-poll delay; nil selects time.Sleep. Tests
	// supply a fast/no-op stand-in.
	Sleep func(time.Duration)
}

// ArmFailure carries the structured detail behind an arm failure.
type ArmFailure struct {
	Code  string // CREATE_CONTROL_CONTEXT_FAILED | ARM_FAULTS | ARM_ACTIVE | ARM_INHIBITED | FORCE_ARM_FAILED | OPERATION_FAILED | ARM_TIMEOUT
	Zones []int
}

func (f *ArmFailure) Error() string { return "control: " + f.Code }

func sleepFunc(opts ArmOptions) func(time.Duration) {
	if opts.Sleep != nil {
		return opts.Sleep
	}
	return time.Sleep
}

// Arm runs the full create -> armAreas -> poll -> force/abort -> destroy
// sequence for one area set.
func Arm(ctx context.Context, c Caller, opts ArmOptions) error {
	codes, ok := statesBySetType[opts.SetType]
	if !ok {
		codes = statesBySetType[Full]
	}
	sleep := sleepFunc(opts)

	sessionID, err := createSession(ctx, c, wire.CreateArmSession, opts.AreaBitmap)
	if err != nil {
		return err
	}
	defer destroySession(ctx, c, sessionID)

	if _, err := c.CallEncrypted(ctx, wire.ArmAreas, map[string]any{
		"sessionId": uint64(sessionID),
		"armType":   armTypeByte[opts.SetType],
	}, true); err != nil {
		return err
	}

	forced := false
	forcePollsLeft := forcePollBudget

	for poll := 0; poll < maxPolls; poll++ {
		sleep(pollInterval)

		resp, err := c.CallEncrypted(ctx, wire.ControlSessionStatus, map[string]any{
			"sessionId": uint64(sessionID),
		}, true)
		if err != nil {
			continue // transient read error: re-poll, per section 4.H
		}
		stateVal, ok := wire.ControlSessionStatus.GetField(resp, "stateId")
		if !ok {
			continue
		}
		state := uint16(stateVal.(uint64))

		switch state {
		case codes.setting, codes.set:
			return nil

		case codes.fault, codes.active:
			if !opts.Force {
				zones, _ := readIssues(ctx, c, wire.GetFaultZones)
				if state == codes.active {
					zones, _ = readIssues(ctx, c, wire.GetActiveZones)
				}
				code := "ARM_FAULTS"
				if state == codes.active {
					code = "ARM_ACTIVE"
				}
				return &ArmFailure{Code: code, Zones: zones}
			}
			if !forced {
				if _, err := c.CallEncrypted(ctx, wire.SetAreaForced, map[string]any{
					"sessionId": uint64(sessionID),
				}, true); err != nil {
					return err
				}
				forced = true
				poll = -1 // restart the budget window for the forced phase below
			}
			if forcePollsLeft--; forcePollsLeft < 0 {
				return &ArmFailure{Code: "FORCE_ARM_FAILED"}
			}

		case codes.inhibited:
			if !opts.Force {
				zones, _ := readIssues(ctx, c, wire.GetInhibitedZones)
				return &ArmFailure{Code: "ARM_INHIBITED", Zones: zones}
			}
			if !forced {
				if _, err := c.CallEncrypted(ctx, wire.ArmAreas, map[string]any{
					"sessionId": uint64(sessionID),
					"armType":   armTypeByte[opts.SetType],
				}, true); err != nil {
					return err
				}
				forced = true
				poll = -1
			}
			if forcePollsLeft--; forcePollsLeft < 0 {
				return &ArmFailure{Code: "FORCE_ARM_FAILED"}
			}

		default:
			// Not a recognized terminal/fault state for this poll; keep
			// waiting, per "intervening messages ... are ignored".
		}
	}

	return &ArmFailure{Code: "ARM_TIMEOUT"}
}

// Disarm runs createDisarmSession -> disarmAreas -> destroy, with no
// polling.
func Disarm(ctx context.Context, c Caller, areaBitmap []byte) error {
	sessionID, err := createSession(ctx, c, wire.CreateDisarmSession, areaBitmap)
	if err != nil {
		return err
	}
	defer destroySession(ctx, c, sessionID)

	_, err = c.CallEncrypted(ctx, wire.DisarmAreas, map[string]any{
		"sessionId": uint64(sessionID),
	}, true)
	return err
}

// RunVerb creates a generic control session, invokes a single verb
// (inhibit/uninhibit, activate/deactivate, lock/unlock/disable/enable),
// and destroys the session, per the create/act/destroy shape shared by
// every non-arm, non-disarm control-session operation.
func RunVerb(ctx context.Context, c Caller, verb wire.Template, props map[string]any) error {
	resp, err := c.CallEncrypted(ctx, wire.CreateControlSession, nil, true)
	if err != nil {
		return err
	}
	sessionID, ok := wire.ShortResponse.GetField(resp, "sessionId")
	if !ok {
		return &ArmFailure{Code: "CREATE_CONTROL_CONTEXT_FAILED"}
	}
	defer destroySession(ctx, c, uint16(sessionID.(uint64)))

	if props == nil {
		props = map[string]any{}
	}
	props["sessionId"] = sessionID

	resp, err = c.CallEncrypted(ctx, verb, props, true)
	if err != nil {
		return err
	}
	if v, ok := wire.BooleanResponse.GetField(resp, "value"); ok && v.(bool) == false {
		return &ArmFailure{Code: "OPERATION_FAILED"}
	}
	return nil
}

func createSession(ctx context.Context, c Caller, tpl wire.Template, areaBitmap []byte) (uint16, error) {
	resp, err := c.CallEncrypted(ctx, tpl, map[string]any{"areaBitmap": areaBitmap}, true)
	if err != nil {
		return 0, err
	}
	id, ok := wire.ShortResponse.GetField(resp, "sessionId")
	if !ok {
		return 0, &ArmFailure{Code: "CREATE_CONTROL_CONTEXT_FAILED"}
	}
	return uint16(id.(uint64)), nil
}

func destroySession(ctx context.Context, c Caller, sessionID uint16) {
	_, _ = c.CallEncrypted(ctx, wire.DestroyControlSession, map[string]any{
		"sessionId": uint64(sessionID),
	}, false)
}

// readIssues iterates a getFaultZones/getActiveZones/getInhibitedZones
// query with next=0 then next=1, stopping on a booleanResponse or any
// error. Per the design notes, an error here is treated as "no more
// issues" — the result is best-effort, not authoritative.
func readIssues(ctx context.Context, c Caller, tpl wire.Template) ([]int, error) {
	var zones []int
	next := uint64(0)
	for {
		resp, err := c.CallEncrypted(ctx, tpl, map[string]any{"next": next}, false)
		if err != nil {
			return zones, nil
		}
		if _, ok := wire.BooleanResponse.GetField(resp, "value"); ok {
			return zones, nil
		}
		zoneVal, ok := tpl.GetField(resp, "zone")
		if !ok {
			return zones, nil
		}
		zones = append(zones, int(zoneVal.(uint64)))
		next = 1
	}
}
