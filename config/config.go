package config

import (
	"bytes"
	_ "embed"
	"strings"
	"time"

	"expensetracker/logger"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DefaultConfigYAML 内置默认配置
//
//go:embed default.yaml
var DefaultConfigYAML []byte

// 数据库驱动
const (
	DriverMySQL  = "mysql"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// 定时报表的统计周期
const (
	ReportPeriodCurrent  = "current"
	ReportPeriodPrevious = "previous"
)

// 批量任务失败策略
const (
	OnErrorAbort    = "abort"
	OnErrorContinue = "continue"
)

// Config 应用配置，启动时加载一次后显式传给各组件
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	Email     EmailConfig     `mapstructure:"email"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Recurring RecurringConfig `mapstructure:"recurring"`
	AMQP      AMQPConfig      `mapstructure:"amqp"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
	MongoURI string `mapstructure:"mongo_uri"`
	MongoDB  string `mapstructure:"mongo_db"`
}

// WebhookConfig 预算提醒 webhook 配置
type WebhookConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// EmailConfig 邮件配置
type EmailConfig struct {
	From     string         `mapstructure:"from"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	SendGrid SendGridConfig `mapstructure:"sendgrid"`
}

// SMTPConfig SMTP 配置
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Configured SMTP 必填项是否齐全
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// SendGridConfig SendGrid 配置
type SendGridConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// SchedulerConfig 定时任务配置
type SchedulerConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Timezone      string `mapstructure:"timezone"`
	MonthlySpec   string `mapstructure:"monthly_spec"`
	AnnualSpec    string `mapstructure:"annual_spec"`
	RecurringSpec string `mapstructure:"recurring_spec"`
	ReportPeriod  string `mapstructure:"report_period"`
}

// RecurringConfig 周期支出配置
type RecurringConfig struct {
	OnError string `mapstructure:"on_error"`
}

// AMQPConfig 事件发布配置，url 为空时不发布
type AMQPConfig struct {
	URL        string `mapstructure:"url"`
	Exchange   string `mapstructure:"exchange"`
	RoutingKey string `mapstructure:"routing_key"`
}

// CacheConfig memcached 报表缓存配置
type CacheConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Hosts      []string `mapstructure:"hosts"`
	TTLSeconds int32    `mapstructure:"ttl_seconds"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

// LogConfig 日志配置
type LogConfig struct {
	Env string `mapstructure:"env"`
}

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, errors.Wrap(err, "read embedded config")
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			logger.Warn("cannot read config file", zap.String("path", configPath), zap.Error(err))
		} else {
			logger.Info("merged config file", zap.String("path", configPath))
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/expensetracker")
		externalViper.AddConfigPath("$HOME/.expensetracker")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				logger.Warn("merge config file failed", zap.Error(err))
			} else {
				logger.Info("merged config file", zap.String("path", externalViper.ConfigFileUsed()))
			}
		}
	}

	v.SetEnvPrefix("EXPENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验枚举类配置项，并补齐缺省值
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverMongo, DriverMemory:
	default:
		return errors.Errorf("unknown database driver %q", c.Database.Driver)
	}
	switch c.Scheduler.ReportPeriod {
	case "":
		c.Scheduler.ReportPeriod = ReportPeriodCurrent
	case ReportPeriodCurrent, ReportPeriodPrevious:
	default:
		return errors.Errorf("unknown scheduler.report_period %q", c.Scheduler.ReportPeriod)
	}
	switch c.Recurring.OnError {
	case "":
		c.Recurring.OnError = OnErrorAbort
	case OnErrorAbort, OnErrorContinue:
	default:
		return errors.Errorf("unknown recurring.on_error %q", c.Recurring.OnError)
	}
	if c.Webhook.Timeout <= 0 {
		c.Webhook.Timeout = 3 * time.Second
	}
	if c.Scheduler.Timezone == "" {
		c.Scheduler.Timezone = "UTC"
	}
	if c.Email.SMTP.Port == 0 {
		c.Email.SMTP.Port = 587
	}
	return nil
}

// IsRelease 是否为生产模式
func (c *Config) IsRelease() bool {
	return c != nil && c.Server.Mode == "release"
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func (c *Config) PrintConfig() {
	logger.Info("current config",
		zap.String("port", c.Server.Port),
		zap.String("mode", c.Server.Mode),
		zap.String("driver", c.Database.Driver),
		zap.Bool("smtp", c.Email.SMTP.Configured()),
		zap.Bool("sendgrid", c.Email.SendGrid.APIKey != ""),
		zap.Bool("scheduler", c.Scheduler.Enabled),
		zap.Bool("amqp", c.AMQP.URL != ""),
		zap.Bool("cache", c.Cache.Enabled),
	)
}
