package models

// MConfig Structure
type MConfig struct {
	Name       string            `yaml:"name"`
	Host       string            `yaml:"host"`
	Port       int               `yaml:"port"`
	LogLevel   string            `yaml:"log_level"`
	GrpcHost   string            `yaml:"grpc_host"`
	GrpcPort   int               `yaml:"grpc_port"`
	Reference  MReferenceConfig  `yaml:"reference"`
	Network    MNetworkConfig    `yaml:"network"`
	DataSource MDataSourceConfig `yaml:"data_source"`
	Session    MSessionConfig    `yaml:"session"`
	Chart      MChartConfig      `yaml:"chart"`
}

type MReferenceConfig struct {
	URL            string `yaml:"url"`
	SymbolColumn   string `yaml:"symbol_column"`
	SecurityColumn string `yaml:"security_column"`
	SectorColumn   string `yaml:"sector_column"`
}

type MNetworkConfig struct {
	Enabled            bool     `yaml:"enabled"`
	Proxies            []string `yaml:"proxies"`
	RequestTimeout     int      `yaml:"timeout"` // seconds, 0 disables
	MaxRetries         int      `yaml:"retries"`
	ConcurrentRequests int      `yaml:"concurrent_requests"`
	UserAgent          string   `yaml:"user_agent"`
}

type MDataSourceConfig struct {
	BaseURL    string `yaml:"base_url"`
	Range      string `yaml:"range"`
	Interval   string `yaml:"interval"`
	AutoAdjust *bool  `yaml:"auto_adjust"` // nil means true
	MinDate    string `yaml:"min_date"`    // YYYY-MM-DD, earliest selectable date
}

// Adjusted reports whether OHLC values are scaled by the adjusted close.
func (c MDataSourceConfig) Adjusted() bool {
	return c.AutoAdjust == nil || *c.AutoAdjust
}

type MSessionConfig struct {
	ResetCron string `yaml:"reset_cron"` // empty disables scheduled resets
}

type MChartConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}
