package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "ESCONN"

// Load 按优先级加载配置：默认值 -> 配置文件 -> 环境变量
// path 为空时跳过配置文件。CLI flags 由调用方在之后覆盖。
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("load env: %w", err)
	}

	return cfg, nil
}

// loadFile 读取配置文件，只覆盖文件中出现的键
func loadFile(path string, cfg *Config) error {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	// viper 会把 map 的键转为小写，查询参数名区分大小写，需要重新读取
	if v.IsSet("query_parameters") {
		params, ok, err := readQueryParameters(path)
		if err != nil {
			return fmt.Errorf("decode query_parameters in %s: %w", path, err)
		}
		if ok {
			cfg.QueryParameters = params
		}
	}
	return nil
}

type querySection struct {
	QueryParameters map[string]any `yaml:"query_parameters" toml:"query_parameters" json:"query_parameters"`
}

// readQueryParameters 保留键的大小写读取 query_parameters
// 仅支持 yaml/json/toml，其他格式返回 ok=false
func readQueryParameters(path string) (map[string]string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}

	var sec querySection
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &sec)
	case "json":
		err = jsoniter.Unmarshal(data, &sec)
	case "toml":
		err = toml.Unmarshal(data, &sec)
	default:
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	params := make(map[string]string, len(sec.QueryParameters))
	for k, v := range sec.QueryParameters {
		params[k] = fmt.Sprint(v)
	}
	return params, true, nil
}

var validate = validator.New()

// Validate 校验配置
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
