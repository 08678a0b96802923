package main

import (
	"os"
	"strings"

	"github.com/ghetzel/cli"
	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/webserver"
)

func main() {
	app := cli.NewApp()
	app.Name = webserver.ApplicationName
	app.Usage = webserver.ApplicationSummary
	app.Version = webserver.ApplicationVersion
	app.ArgsUsage = `[KEY=VALUE ...]`
	app.EnableBashCompletion = true

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   `log-level, L`,
			Usage:  `Level of log output verbosity`,
			Value:  `info`,
			EnvVar: `LOGLEVEL`,
		},
		cli.StringFlag{
			Name:   `config, c`,
			Usage:  `The name of the configuration file to load (if present)`,
			Value:  webserver.DefaultConfigFile,
			EnvVar: `WEBSERVER_CONFIG`,
		},
		cli.StringFlag{
			Name:   `host, H`,
			Usage:  `Host name or address the server should listen on`,
			Value:  webserver.DefaultHost,
			EnvVar: `WEBSERVER_HOST`,
		},
		cli.IntFlag{
			Name:   `port, p`,
			Usage:  `Port the server should listen on`,
			Value:  webserver.DefaultPort,
			EnvVar: `WEBSERVER_PORT`,
		},
		cli.StringFlag{
			Name:   `webdir, w`,
			Usage:  `The directory to serve files from (defaults to the current directory)`,
			EnvVar: `WEBSERVER_WEBDIR`,
		},
		cli.BoolFlag{
			Name:  `https, s`,
			Usage: `Serve HTTPS instead of plain HTTP (requires --cert)`,
		},
		cli.StringFlag{
			Name:  `cert, C`,
			Usage: `The PEM certificate file for HTTPS; may also contain the private key`,
		},
		cli.StringFlag{
			Name:  `key, K`,
			Usage: `The PEM private key file for HTTPS (defaults to the certificate file)`,
		},
		cli.StringFlag{
			Name:   `plugin, P`,
			Usage:  `A Go plugin (.so) providing the request handler`,
			EnvVar: `WEBSERVER_PLUGIN`,
		},
		cli.StringFlag{
			Name:  `entry, e`,
			Usage: `The name of the request handler function exported by the plugin`,
			Value: webserver.DefaultEntry,
		},
		cli.BoolFlag{
			Name:  `generate, g`,
			Usage: `Print the source of a skeleton request handler plugin, then exit.`,
		},
		cli.StringSliceFlag{
			Name:  `extra, x`,
			Usage: `A key=value pair made available to every template.`,
		},
		cli.StringSliceFlag{
			Name:  `template-pattern, t`,
			Usage: `A glob pattern matching files that should always be rendered as templates`,
		},
		cli.StringSliceFlag{
			Name:  `index-file, i`,
			Usage: `A filename to serve for requests for a directory, in order of preference`,
		},
		cli.IntFlag{
			Name:  `max-passes`,
			Usage: `The maximum number of additional placeholder substitution passes`,
			Value: webserver.DefaultMaxPasses,
		},
		cli.BoolFlag{
			Name:  `concurrent`,
			Usage: `Handle requests concurrently instead of one at a time`,
		},
		cli.BoolFlag{
			Name:  `nocache, N`,
			Usage: `Send headers instructing clients not to cache any response`,
		},
		cli.DurationFlag{
			Name:  `command-timeout`,
			Usage: `How long executed commands may run before being killed (0 waits forever)`,
		},
	}

	app.Before = func(c *cli.Context) error {
		log.SetLevelString(c.String(`log-level`))
		return nil
	}

	app.Action = func(c *cli.Context) {
		var config = webserver.DefaultConfig()

		if err := config.LoadFile(c.String(`config`)); err != nil {
			log.Fatalf("config error: %v", err)
		}

		if c.Bool(`generate`) {
			if err := webserver.GeneratePlugin(os.Stdout, firstSet(c, `entry`, config.Entry)); err != nil {
				log.Fatalf("generate: %v", err)
			}

			return
		}

		if c.IsSet(`log-level`) || config.LogLevel == `` {
			config.LogLevel = c.String(`log-level`)
		}

		log.SetLevelString(config.LogLevel)

		config.Host = firstSet(c, `host`, config.Host)
		config.WebDir = firstSet(c, `webdir`, config.WebDir)
		config.CertFile = firstSet(c, `cert`, config.CertFile)
		config.KeyFile = firstSet(c, `key`, config.KeyFile)
		config.Plugin = firstSet(c, `plugin`, config.Plugin)
		config.Entry = firstSet(c, `entry`, config.Entry)

		if c.IsSet(`port`) {
			config.Port = c.Int(`port`)
		}

		if c.IsSet(`max-passes`) {
			config.MaxPasses = c.Int(`max-passes`)
		}

		if c.IsSet(`command-timeout`) {
			config.CommandTimeout = c.Duration(`command-timeout`)
		}

		if c.Bool(`https`) {
			config.HTTPS = true
		}

		if c.Bool(`concurrent`) {
			config.Concurrent = true
		}

		if c.Bool(`nocache`) {
			config.NoCache = true
		}

		if patterns := c.StringSlice(`template-pattern`); len(patterns) > 0 {
			config.TemplatePatterns = patterns
		}

		if indexes := c.StringSlice(`index-file`); len(indexes) > 0 {
			config.IndexFiles = indexes
		}

		config.Extra = append(config.Extra, c.StringSlice(`extra`)...)

		for _, arg := range c.Args() {
			if strings.Contains(arg, `=`) {
				config.Extra = append(config.Extra, arg)
			} else {
				log.Fatalf("invalid argument %q: expected KEY=VALUE", arg)
			}
		}

		if err := config.Validate(); err != nil {
			log.Fatalf("config error: %v", err)
		}

		if server, err := webserver.NewServer(config); err == nil {
			if err := server.ListenAndServe(); err != nil {
				log.Fatalf("server error: %v", err)
			}
		} else {
			log.Fatalf("startup error: %v", err)
		}
	}

	app.Run(os.Args)
}

func firstSet(c *cli.Context, name string, fallback string) string {
	if c.IsSet(name) {
		return c.String(name)
	} else if fallback != `` {
		return fallback
	}

	return c.String(name)
}
