package reconcile

// Config holds configuration for the start-up reconciliation pass.
type Config struct {
	// AutoFix applies additive corrective DDL during the start-up pass.
	AutoFix bool `mapstructure:"auto_fix" default:"true"`
	// SkipStartup skips the start-up reconciliation entirely. The server
	// then accepts traffic against a possibly-drifted schema.
	SkipStartup bool `mapstructure:"skip_startup" default:"false"`
}
