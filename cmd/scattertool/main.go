// scattertool inspects the scatter tool set and replays brush scripts
// without a window.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Faultbox/scatterbrush/internal/brushes"
	"github.com/Faultbox/scatterbrush/internal/config"
	"github.com/Faultbox/scatterbrush/internal/host/headless"
	"github.com/Faultbox/scatterbrush/internal/keymap"
	"github.com/Faultbox/scatterbrush/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if err := logger.Init("warn", ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "tools", "ls":
		err = cmdTools(args)
	case "keymap", "keys":
		err = cmdKeymap(args)
	case "presets":
		err = cmdPresets(args)
	case "replay", "run":
		err = cmdReplay(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`scattertool - scatter brush utility

Usage:
  scattertool <command> [options]

Commands:
  tools [keymap.yaml]         List tools by category with their shortcuts
  keymap [keymap.yaml]        Print the resolved shortcuts as Markdown
  presets [overrides.yaml]    Print the default properties of every tool
  replay <script.yaml>        Run a brush script headless and print the result
  config [path]               Write the default config (user config dir if no path)

Examples:
  scattertool tools
  scattertool keymap ~/.config/scatterbrush/keymap.toml
  scattertool replay testdata/spray.yaml`)
}

func optionalPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func loadKeymap(path string) (*keymap.Keymap, error) {
	km, warnings, err := keymap.Load(path)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return km, nil
}

func cmdTools(args []string) error {
	km, err := loadKeymap(optionalPath(args))
	if err != nil {
		return err
	}
	newPrinter(os.Stdout).tools(brushes.NewRegistry().Infos(), km)
	return nil
}

func cmdKeymap(args []string) error {
	km, err := loadKeymap(optionalPath(args))
	if err != nil {
		return err
	}
	fmt.Print(km.Markdown())
	return nil
}

func cmdPresets(args []string) error {
	cfg := config.Default()
	cfg.Brushes.PresetsPath = optionalPath(args)
	p, err := brushes.LoadPresets(cfg)
	if err != nil {
		return err
	}
	newPrinter(os.Stdout).presets(p)
	return nil
}

func cmdReplay(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: scattertool replay <script.yaml>")
	}
	s, err := headless.LoadScript(args[0])
	if err != nil {
		return err
	}
	rep, err := headless.Replay(s, brushes.NewRegistry(), config.Default())
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return newPrinter(os.Stdout).report(args[0], rep)
}

func cmdConfig(args []string) error {
	path, err := config.WriteDefault(optionalPath(args))
	if err != nil {
		return err
	}
	fmt.Println("Wrote", path)
	return nil
}
