package commands

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"

	"github.com/rockrashit19/Duslar/internal/app"
)

// envPrefix is stripped from environment variables during config loading (e.g., DUSLAR_API__BASE_URL → api.base_url)
const envPrefix = "DUSLAR_"

// configSections are the top-level keys of app.Config. Flags whose key falls
// outside them are command options, not configuration.
var configSections = jsonKeys(reflect.TypeFor[app.Config]())

func jsonKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool, t.NumField())
	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			keys[name] = true
		}
	}
	return keys
}

// configSource is one layer of configuration. Later layers override earlier ones.
type configSource struct {
	name     string
	provider koanf.Provider
	parser   koanf.Parser
}

// loadConfig loads application configuration with precedence:
// defaults ← config file ← DUSLAR_ environment ← CLI flags
func loadConfig(configPath string, cmd *cli.Command, environFunc func() []string) (*app.Config, error) {
	var sources []configSource
	if configPath != "" {
		sources = append(sources, configSource{"config file", file.Provider(configPath), toml.Parser()})
	}
	sources = append(sources, configSource{"environment variables", env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: envKey,
		EnvironFunc:   environFunc,
	}), nil})
	if cmd != nil {
		sources = append(sources, configSource{"CLI flags", confmap.Provider(extractAndTransformFlags(cmd), "."), nil})
	}

	k := koanf.New(".")
	for _, src := range sources {
		if err := k.Load(src.provider, src.parser); err != nil {
			return nil, fmt.Errorf("loading %s: %w", src.name, err)
		}
	}

	config := &app.Config{}
	if err := k.UnmarshalWithConf("", config, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := config.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// envKey maps DUSLAR_AUTH__REAUTH_TIMEOUT to auth.reauth_timeout.
func envKey(key, value string) (string, any) {
	stripped := strings.TrimPrefix(key, envPrefix)
	return strings.ToLower(strings.ReplaceAll(stripped, "__", ".")), value
}

// flagKey maps a flag's primary name to its config key:
// --api--base-url → api.base_url, --log-level → log_level
func flagKey(name string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, "--", "."), "-", "_")
}

// extractAndTransformFlags collects the configuration flags the user set on
// cmd or any of its parents, keyed by config path. Aliases and command
// options (filters, --output, --config) are left out.
func extractAndTransformFlags(cmd *cli.Command) map[string]any {
	values := make(map[string]any)

	// Root first, so a subcommand flag overrides a parent flag with the same key
	lineage := cmd.Lineage()
	for i := len(lineage) - 1; i >= 0; i-- {
		for _, flag := range lineage[i].Flags {
			name := flag.Names()[0]
			key := flagKey(name)
			section, _, _ := strings.Cut(key, ".")
			if !configSections[section] {
				continue
			}
			// Skip unset flags to preserve precedence from earlier config sources
			if !cmd.IsSet(name) {
				continue
			}
			if value := cmd.Value(name); value != nil {
				values[key] = value
			}
		}
	}

	return values
}
