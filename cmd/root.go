package cmd

import (
	"fmt"
	"os"

	"github.com/masmgr/forkpoint-go/config"
	"github.com/masmgr/forkpoint-go/internal/output"
	"github.com/urfave/cli/v2"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "forkpoint",
		Usage:     "Branch divergence analyzer for Git repositories",
		Version:   "1.0.0",
		ArgsUsage: "[featureBranch] [upstreamBranch...]",
		Commands: []*cli.Command{
			AnalyzeCmd(),
		},
		Flags:  commonFlags(),
		Action: analyzeAction,
	}
}

// Common flags shared by the root action and the analyze command.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown)",
			Value:   "console",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.StringFlag{
			Name:  "engine",
			Usage: "History query engine (auto, gogit, cli)",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored console output",
		},
	}
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch s {
	case "json":
		return output.FormatJSON
	case "csv":
		return output.FormatCSV
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatConsole
	}
}

// loadConfig loads configuration from file or defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if engine := c.String("engine"); engine != "" {
		cfg.Analysis.Engine = engine
	}
	if c.Bool("no-color") {
		cfg.Display.NoColor = true
	}

	return cfg, nil
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
