package config

const (
	defaultScratchDir    = "~/.local/share/clipforge/scratch"
	defaultOutputDir     = "~/.local/share/clipforge/videos"
	defaultLogDir        = "~/.local/share/clipforge/logs"
	defaultAPIBind       = "127.0.0.1:7490"
	defaultFFmpeg        = "ffmpeg"
	defaultFFprobe       = "ffprobe"
	defaultChromium      = "chromium"
	defaultProbeTimeout  = 30
	defaultEncodeTimeout = 600
	defaultFetchTimeout  = 30
	defaultMaxFetchBytes = 256 << 20
	defaultReapInterval  = 300
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ScratchDir: defaultScratchDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		Engine: Engine{
			FFmpeg:        defaultFFmpeg,
			FFprobe:       defaultFFprobe,
			ProbeTimeout:  defaultProbeTimeout,
			EncodeTimeout: defaultEncodeTimeout,
		},
		Resolver: Resolver{
			FetchTimeout:  defaultFetchTimeout,
			MaxFetchBytes: defaultMaxFetchBytes,
		},
		Hooks: Hooks{
			Enabled:  true,
			Chromium: defaultChromium,
		},
		Reaper: Reaper{
			Interval: defaultReapInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
