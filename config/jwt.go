package config

// JWTConfig 签发与校验访问/刷新令牌所需的配置
// 过期时间单位为秒
type JWTConfig struct {
	Secret            string `mapstructure:"secret" json:"secret" yaml:"secret"`
	Issuer            string `mapstructure:"issuer" json:"issuer" yaml:"issuer"`
	AccessExpireSecs  int    `mapstructure:"access_expire_secs" json:"access_expire_secs" yaml:"access_expire_secs"`
	RefreshExpireSecs int    `mapstructure:"refresh_expire_secs" json:"refresh_expire_secs" yaml:"refresh_expire_secs"`
}
