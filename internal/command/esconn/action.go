package esconn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251124-es-conn/internal/config"
	"github.com/lwmacct/251124-es-conn/internal/logger"
	"github.com/lwmacct/251124-es-conn/pkg/codec"
	"github.com/lwmacct/251124-es-conn/pkg/connection"
	"github.com/lwmacct/251124-es-conn/pkg/request"
)

// 配置优先级 (从低到高)：
// 1. 默认值 (config.DefaultConfig)
// 2. 配置文件 (--config)
// 3. 环境变量 (ESCONN_*)
// 4. CLI flags (用户明确指定)

// loadConfig 加载配置并用明确指定的 flags 覆盖
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return cfg, err
	}

	if cmd.IsSet("endpoint") {
		cfg.Endpoint = cmd.String("endpoint")
	}
	if cmd.IsSet("default-index") {
		cfg.DefaultIndex = cmd.String("default-index")
	}
	if cmd.IsSet("timeout") {
		cfg.Timeout = cmd.Int("timeout")
	}
	if cmd.IsSet("max-concurrent-requests") {
		cfg.MaxConcurrentRequests = cmd.Int("max-concurrent-requests")
	}
	if cmd.IsSet("proxy") {
		cfg.ProxyAddress = cmd.String("proxy")
	}
	if cmd.IsSet("proxy-username") {
		cfg.ProxyUsername = cmd.String("proxy-username")
	}
	if cmd.IsSet("proxy-password") {
		cfg.ProxyPassword = cmd.String("proxy-password")
	}
	if cmd.IsSet("pretty") {
		cfg.PrettyResponses = cmd.Bool("pretty")
	}
	if cmd.IsSet("trace") {
		cfg.Trace = cmd.Bool("trace")
	}
	if cmd.IsSet("pluralize") {
		cfg.PluralizeTypeNames = cmd.Bool("pluralize")
	}
	if cmd.IsSet("query") {
		if cfg.QueryParameters == nil {
			cfg.QueryParameters = make(map[string]string)
		}
		for k, v := range cmd.StringMap("query") {
			cfg.QueryParameters[k] = v
		}
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("log-file") {
		cfg.LogFile = cmd.String("log-file")
	}

	return cfg, cfg.Validate()
}

// setup 构建日志器和冻结的连接设置
func setup(cmd *cli.Command) (*connection.Settings, zerolog.Logger, func() error, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	log, cleanup, err := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Console: errWriter(cmd),
	})
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	opts := []connection.Option{connection.WithLogger(log)}
	// trace 开启时由 Observer 记录每个请求，不再重复记录状态
	if !cfg.Trace {
		opts = append(opts, connection.WithStatusHandler(connection.LogStatus(log)))
	}
	s, err := cfg.Settings(opts...)
	if err != nil {
		_ = cleanup()
		return nil, zerolog.Nop(), nil, err
	}
	return s.Freeze(), log, cleanup, nil
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// printJSON 使用连接的编解码器输出缩进 JSON
func printJSON(cmd *cli.Command, c *codec.Codec, v any) error {
	data, err := c.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(writer(cmd), "%s\n", data)
	return err
}

type proxyView struct {
	Address  string `json:"address"`
	Username string `json:"username,omitempty"`
}

type settingsView struct {
	Endpoint              string              `json:"endpoint"`
	Host                  string              `json:"host"`
	Port                  int                 `json:"port"`
	EmbeddedCredentials   bool                `json:"embedded_credentials"`
	DefaultIndex          string              `json:"default_index"`
	Timeout               string              `json:"timeout"`
	MaxConcurrentRequests int                 `json:"max_concurrent_requests"`
	Proxy                 *proxyView          `json:"proxy,omitempty"`
	PrettyResponses       bool                `json:"pretty_responses"`
	Trace                 bool                `json:"trace"`
	QueryParameters       map[string][]string `json:"query_parameters,omitempty"`
}

func newSettingsView(s *connection.Settings) settingsView {
	index, _ := s.DefaultIndex()
	view := settingsView{
		Endpoint:              s.Endpoint().Redacted(),
		Host:                  s.Host(),
		Port:                  s.Port(),
		EmbeddedCredentials:   s.EmbeddedCredentials(),
		DefaultIndex:          index,
		Timeout:               s.Timeout().String(),
		MaxConcurrentRequests: s.MaxConcurrentRequests(),
		PrettyResponses:       s.PrettyResponses(),
		Trace:                 s.TraceEnabled(),
		QueryParameters:       s.GlobalQueryParameters(),
	}
	if p := s.Proxy(); p != nil {
		view.Proxy = &proxyView{Address: p.Address.Redacted(), Username: p.Username}
	}
	return view
}

func showAction(ctx context.Context, cmd *cli.Command) error {
	s, _, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return printJSON(cmd, request.NewBuilder(s).Codec(), newSettingsView(s))
}

func urlAction(ctx context.Context, cmd *cli.Command) error {
	s, _, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	index := cmd.String("index")
	if index == "" {
		if index, err = s.DefaultIndex(); err != nil {
			return err
		}
	}

	u := request.NewBuilder(s).URL(index, cmd.String("type"), cmd.Args().Slice()...)
	_, err = fmt.Fprintln(writer(cmd), u.Redacted())
	return err
}

type pingResult struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status_code"`
	Duration   string `json:"duration"`
	Success    bool   `json:"success"`
}

func pingAction(ctx context.Context, cmd *cli.Command) error {
	s, log, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	pool := request.NewClientPool(1)
	defer pool.CloseAll()

	b := request.NewBuilder(s)
	u := b.URL("", "")
	req, err := b.NewRequestURL(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := pool.GetClient(s).Do(req)
	if err != nil {
		return fmt.Errorf("ping %s: %w", u.Redacted(), err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	result := pingResult{
		URL:        u.Redacted(),
		StatusCode: resp.StatusCode,
		Duration:   time.Since(start).Round(time.Millisecond).String(),
		Success:    resp.StatusCode >= 200 && resp.StatusCode < 300,
	}
	if !result.Success {
		log.Warn().Int("status_code", resp.StatusCode).Msg("cluster responded with non-success status")
	}
	return printJSON(cmd, b.Codec(), result)
}

func versionAction(ctx context.Context, cmd *cli.Command) error {
	version := cmd.Root().Version
	if version == "" {
		version = "dev"
	}
	_, err := fmt.Fprintf(writer(cmd), "%s %s\n", cmd.Root().Name, version)
	return err
}
