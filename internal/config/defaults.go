package config

const (
	defaultConfigPath        = "~/.config/protoform/config.toml"
	projectConfigName        = "protoform.toml"
	defaultMergeMode         = "no_override"
	defaultResolverCacheSize = 4096
	defaultRefineIterations  = 1
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Inventory: Inventory{
			MergeMode: defaultMergeMode,
		},
		Engine: Engine{
			ResolverCacheSize: defaultResolverCacheSize,
			RefineIterations:  defaultRefineIterations,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
