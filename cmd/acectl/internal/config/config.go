// Package config binds acectl's flags and environment variables (via
// viper) into a single ace2.Config. No config file is read.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ace2go/ace2/ace2"
)

// Error marks a problem with the CLI's own configuration (missing or
// contradictory flags), as opposed to a panel/protocol failure. main.go
// uses this to pick the "usage error" exit code.
type Error struct{ msg string }

func (e *Error) Error() string { return e.msg }

func configError(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// Bind registers the connection and authentication flags shared by every
// subcommand onto cmd's persistent flag set, and wires them into v with
// the ACECTL_ environment prefix.
func Bind(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.String("host", "", "panel host name or IP address")
	flags.Int("port", 3001, "panel TCP port")
	flags.String("encryption-key", "", "panel encryption password (24+ chars)")
	flags.String("pin", "", "PIN code, for PIN-based login")
	flags.String("username", "", "account username, for account-based login")
	flags.String("password", "", "account password, for account-based login")
	flags.Duration("timeout", 0, "per-call timeout (0 uses the transport default)")

	v.SetEnvPrefix("ACECTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)
}

// Load turns the bound flag and environment values into an ace2.Config.
// It does not dial — callers pass the result to ace2.Connect.
func Load(v *viper.Viper) (ace2.Config, error) {
	host := v.GetString("host")
	if host == "" {
		return ace2.Config{}, configError("--host is required")
	}

	cfg := ace2.Config{
		Host:          host,
		Port:          v.GetInt("port"),
		EncryptionKey: v.GetString("encryption-key"),
	}

	pin := v.GetString("pin")
	username := v.GetString("username")
	if pin != "" {
		cfg.Method = ace2.LoginPIN
		cfg.PIN = pin
	} else if username != "" {
		cfg.Method = ace2.LoginAccount
		cfg.Username = username
		cfg.Password = v.GetString("password")
	} else {
		return ace2.Config{}, configError("either --pin or --username/--password is required")
	}

	if d := v.GetDuration("timeout"); d > 0 {
		cfg.Transport.CallTimeout = d
	}

	return cfg, nil
}
