package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/nijaru/yt-summary/config"
)

func main() {
	app := &cli.App{
		Name:   "yt-summary",
		Usage:  "Landing page and transcript generator for YouTube video summaries",
		Action: ServeAction,
		Flags:  serveFlags(),
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the landing page",
				Flags:  serveFlags(),
				Action: ServeAction,
			},
			{
				Name:   "tui",
				Usage:  "Run the transcript generator in the terminal",
				Flags:  commonFlags(),
				Action: TUIAction,
			},
			{
				Name:  "summarize",
				Usage: "Submit one video and print the result",
				Flags: append(commonFlags(),
					&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "YouTube video URL", Required: true},
					&cli.StringFlag{Name: "pattern", Aliases: []string{"p"}, Usage: "analysis pattern"},
					&cli.BoolFlag{Name: "metadata", Usage: "include video metadata"},
					&cli.BoolFlag{Name: "comments", Usage: "include top comments"},
				),
				Action: SummarizeAction,
			},
			{
				Name:  "history",
				Usage: "List recent submissions",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Usage: "submission log path", EnvVars: []string{"DB_PATH"}},
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "number of submissions"},
				},
				Action: HistoryAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("yt-summary failed")
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "api-url", Usage: "summarization service base URL"},
		&cli.DurationFlag{Name: "timeout", Usage: "summarization request timeout"},
		&cli.BoolFlag{Name: "strict", Usage: "only accept YouTube watch URLs"},
		&cli.StringFlag{Name: "content", Usage: "YAML file replacing the built-in site content"},
	}
}

func serveFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.StringFlag{Name: "port", Usage: "listen port"},
		&cli.StringFlag{Name: "db", Usage: "submission log path, empty disables it"},
	)
}

// loadConfig reads the environment and applies any flags the user set.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.LoadConfig()

	if c.IsSet("port") {
		cfg.ServerPort = c.String("port")
	}
	if c.IsSet("api-url") {
		cfg.Summary.APIURL = c.String("api-url")
	}
	if c.IsSet("timeout") {
		cfg.Summary.Timeout = c.Duration("timeout")
	}
	if c.IsSet("strict") {
		cfg.Summary.StrictURLs = c.Bool("strict")
	}
	if c.IsSet("content") {
		cfg.SiteContentFile = c.String("content")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
