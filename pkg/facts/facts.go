// Package facts describes the machine carton runs on. Facts are the
// variables configuration conditions are evaluated against, for example
// `platform == "darwin"`.
package facts

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/arthur-debert/carton/pkg/logging"
	"github.com/arthur-debert/carton/pkg/types"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override facts:
// CARTON_FACT_PROFILE=work sets the "profile" fact
const EnvPrefix = "CARTON_FACT_"

// Fact names always present
const (
	Platform = "platform"
	OS       = "os"
	Arch     = "arch"
	Hostname = "hostname"
	User     = "user"
	Home     = "home"
	Shell    = "shell"
)

// Collect gathers the machine facts, then layers static facts and
// environment overrides on top
func Collect(static map[string]interface{}) types.Facts {
	logger := logging.GetLogger("facts")

	facts := types.Facts{
		Platform: runtime.GOOS,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		Hostname: hostname(),
		User:     username(),
		Home:     home(),
		Shell:    filepath.Base(os.Getenv("SHELL")),
	}

	for name, value := range static {
		facts[name] = value
	}

	for name, value := range fromEnv() {
		facts[name] = value
	}

	logger.Trace().Interface("facts", facts).Msg("Collected facts")
	return facts
}

func fromEnv() map[string]interface{} {
	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		logger := logging.GetLogger("facts")
		logger.Warn().Err(err).Msg("Failed to read fact overrides")
		return nil
	}
	return k.All()
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
}

func username() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return os.Getenv("USERNAME")
}

func home() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return dir
}
