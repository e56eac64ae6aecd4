package config

// AIConfig 上游大模型服务配置
// APIKey 只保存在服务端，前端请求不携带任何凭证
type AIConfig struct {
	BaseURL     string  `mapstructure:"base_url" json:"base_url" yaml:"base_url"`
	APIKey      string  `mapstructure:"api_key" json:"api_key" yaml:"api_key"`
	Model       string  `mapstructure:"model" json:"model" yaml:"model"`
	Temperature float64 `mapstructure:"temperature" json:"temperature" yaml:"temperature"`
	TimeoutSecs int     `mapstructure:"timeout_secs" json:"timeout_secs" yaml:"timeout_secs"`
}
