// bomctl drives the BOM pipeline from the command line.
//
// Usage:
//
//	bomctl generate -r "two compute nodes and 1TB block storage" --provider openai
//	bomctl catalog --category Database
//	bomctl constraints -r "Only Base Database Service. No Exadata."
//	bomctl providers list
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "bomctl",
		Usage:   "Generate OCI bills of materials from plain-language requirements",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a config file (defaults to configs/config.yaml)",
				EnvVars: []string{"BOMCTL_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"BOMCTL_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "offline",
				Usage: "Use the embedded catalog and in-memory storage only",
			},
		},
		Commands: []*cli.Command{
			generateCommand(),
			catalogCommand(),
			constraintsCommand(),
			providersCommand(),
		},
	}
}
