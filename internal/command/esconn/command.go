package esconn

import (
	"github.com/lwmacct/251124-es-conn/internal/config"
	"github.com/urfave/cli/v3"
)

// 默认配置 - 单一来源 (Single Source of Truth)
var defaults = config.DefaultConfig()

// Command returns the es-conn CLI command
func Command(version string) *cli.Command {
	return &cli.Command{
		Name:    "es-conn",
		Usage:   "Inspect search cluster connection settings and the requests they produce",
		Version: version,
		Commands: []*cli.Command{
			showCommand(),
			urlCommand(),
			pingCommand(),
			versionCommand(),
		},
		Flags: flags(),
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "config file (yaml, json or toml)",
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Aliases: []string{"e"},
			Value:   defaults.Endpoint,
			Usage:   "cluster endpoint URI",
		},
		&cli.StringFlag{
			Name:    "default-index",
			Aliases: []string{"i"},
			Value:   defaults.DefaultIndex,
			Usage:   "index used for unmapped types",
		},
		&cli.IntFlag{
			Name:  "timeout",
			Value: defaults.Timeout,
			Usage: "request timeout in milliseconds",
		},
		&cli.IntFlag{
			Name:  "max-concurrent-requests",
			Value: defaults.MaxConcurrentRequests,
			Usage: "maximum in-flight requests (0 for unbounded)",
		},
		&cli.StringFlag{
			Name:  "proxy",
			Value: defaults.ProxyAddress,
			Usage: "HTTP proxy address",
		},
		&cli.StringFlag{
			Name:  "proxy-username",
			Value: defaults.ProxyUsername,
			Usage: "HTTP proxy username",
		},
		&cli.StringFlag{
			Name:  "proxy-password",
			Value: defaults.ProxyPassword,
			Usage: "HTTP proxy password",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Value: defaults.PrettyResponses,
			Usage: "ask the cluster for pretty responses",
		},
		&cli.BoolFlag{
			Name:  "trace",
			Value: defaults.Trace,
			Usage: "log every request",
		},
		&cli.BoolFlag{
			Name:  "pluralize",
			Value: defaults.PluralizeTypeNames,
			Usage: "pluralize type names",
		},
		&cli.StringMapFlag{
			Name:  "query",
			Usage: "global query parameter key=value, repeatable",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: defaults.LogLevel,
			Usage: "log level (trace, debug, info, warn, error)",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Value: defaults.LogFile,
			Usage: "write JSON logs to a rotated file instead of stderr",
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:   "show",
		Usage:  "print the resolved connection settings as JSON",
		Action: showAction,
	}
}

func urlCommand() *cli.Command {
	return &cli.Command{
		Name:      "url",
		Usage:     "print the request URL for an index, type and path segments",
		ArgsUsage: "[segment...]",
		Action:    urlAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "index",
				Usage: "index name (defaults to --default-index)",
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "type name",
			},
		},
	}
}

func pingCommand() *cli.Command {
	return &cli.Command{
		Name:   "ping",
		Usage:  "send GET / to the endpoint and report the response status",
		Action: pingAction,
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "print the version",
		Action: versionAction,
	}
}
