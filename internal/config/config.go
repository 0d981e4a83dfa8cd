// Package config 提供 es-conn 的应用配置管理。
//
// 配置加载优先级 (从低到高)：
//  1. 默认值 - DefaultConfig() 函数中定义
//  2. 配置文件 - Load 的 path 参数 (yaml/json/toml)
//  3. 环境变量 - ESCONN_* 前缀
//  4. CLI flags - 最高优先级，由命令层覆盖
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/lwmacct/251124-es-conn/pkg/connection"
)

// Config 连接配置
type Config struct {
	Endpoint              string            `mapstructure:"endpoint" envconfig:"ENDPOINT" validate:"required,url" comment:"集群端点，如 'http://localhost:9200'"`
	DefaultIndex          string            `mapstructure:"default_index" envconfig:"DEFAULT_INDEX" validate:"required" comment:"未映射类型使用的默认索引"`
	Timeout               int               `mapstructure:"timeout" envconfig:"TIMEOUT" validate:"gt=0" comment:"请求超时时间 (毫秒)"`
	MaxConcurrentRequests int               `mapstructure:"max_concurrent_requests" envconfig:"MAX_CONCURRENT_REQUESTS" validate:"gte=0" comment:"最大并发请求数，0 表示不限制"`
	ProxyAddress          string            `mapstructure:"proxy_address" envconfig:"PROXY_ADDRESS" validate:"omitempty,url" comment:"HTTP 代理地址"`
	ProxyUsername         string            `mapstructure:"proxy_username" envconfig:"PROXY_USERNAME" validate:"required_with=ProxyPassword" comment:"代理用户名"`
	ProxyPassword         string            `mapstructure:"proxy_password" envconfig:"PROXY_PASSWORD" comment:"代理密码"`
	PrettyResponses       bool              `mapstructure:"pretty_responses" envconfig:"PRETTY_RESPONSES" comment:"请求格式化的响应"`
	Trace                 bool              `mapstructure:"trace" envconfig:"TRACE" comment:"记录每个请求的 trace 日志"`
	PluralizeTypeNames    bool              `mapstructure:"pluralize_type_names" envconfig:"PLURALIZE_TYPE_NAMES" comment:"类型名使用复数形式"`
	QueryParameters       map[string]string `mapstructure:"query_parameters" envconfig:"QUERY_PARAMETERS" comment:"附加到每个请求的查询参数"`
	LogLevel              string            `mapstructure:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=trace debug info warn error" comment:"日志级别"`
	LogFile               string            `mapstructure:"log_file" envconfig:"LOG_FILE" comment:"日志文件路径，为空时输出到 stderr"`
}

// DefaultConfig 返回默认配置
// 这是配置默认值的唯一来源 (Single Source of Truth)
// CLI flags 从此函数读取默认值，--help 显示与代码自动一致
func DefaultConfig() Config {
	return Config{
		Endpoint:              "http://localhost:9200",
		DefaultIndex:          "default",
		Timeout:               int(connection.DefaultTimeout / time.Millisecond),
		MaxConcurrentRequests: 0,
		LogLevel:              "info",
	}
}

// Options 将配置转换为连接选项
func (c Config) Options() ([]connection.Option, error) {
	opts := []connection.Option{
		connection.WithTimeout(time.Duration(c.Timeout) * time.Millisecond),
		connection.WithMaxConcurrentRequests(c.MaxConcurrentRequests),
		connection.EnableTrace(c.Trace),
	}

	if c.ProxyAddress != "" {
		proxy, err := url.Parse(c.ProxyAddress)
		if err != nil {
			return nil, fmt.Errorf("parse proxy address: %w", err)
		}
		opts = append(opts, connection.WithProxy(proxy, c.ProxyUsername, c.ProxyPassword))
	}
	if c.PrettyResponses {
		opts = append(opts, connection.UsePrettyResponses(true))
	}
	if c.PluralizeTypeNames {
		opts = append(opts, connection.PluralizeTypeNames())
	}
	if len(c.QueryParameters) > 0 {
		params := make(url.Values, len(c.QueryParameters))
		for k, v := range c.QueryParameters {
			params.Set(k, v)
		}
		opts = append(opts, connection.WithGlobalQueryParameters(params))
	}
	return opts, nil
}

// Settings 根据配置创建连接设置，extra 在配置项之后应用
func (c Config) Settings(extra ...connection.Option) (*connection.Settings, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return connection.Parse(c.Endpoint, c.DefaultIndex, append(opts, extra...)...)
}
