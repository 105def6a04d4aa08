package config

const (
	defaultSplitOutputDir   = "raw"
	defaultConvertOutputDir = "markdown"
	defaultBatchWorkers     = 4
	defaultBatchLogFile     = "spool-run.log"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Split: SplitConfig{
			OutputDir: defaultSplitOutputDir,
		},
		Convert: ConvertConfig{
			OutputDir: defaultConvertOutputDir,
		},
		Batch: BatchConfig{
			Workers: defaultBatchWorkers,
			LogFile: defaultBatchLogFile,
		},
	}
}
