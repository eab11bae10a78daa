package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/splice/config"
)

var version = "0.1.0"

var log = commonlog.GetLogger("splice")

// app carries the state shared by all subcommands once the persistent
// flags have been parsed.
type app struct {
	configPath string
	verbose    int
	cfg        *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "splice",
		Short:   "Merge edited Java declarations back into their source files",
		Version: version,
		Long: `splice reconciles a base Java file with a candidate version of it and
rewrites the base with the smallest set of text edits: new imports and
members are added, changed method bodies and signatures are replaced,
and everything the candidate does not mention is left untouched.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default .splice.yaml in . or $HOME)")
	rootCmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "increase log verbosity (repeatable)")

	rootCmd.AddCommand(newMergeCmd(a))
	rootCmd.AddCommand(newPlanCmd(a))
	rootCmd.AddCommand(newDumpCmd(a))
	rootCmd.AddCommand(newFmtCmd(a))
	rootCmd.AddCommand(newBatchCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))

	return rootCmd
}

func (a *app) setup() error {
	loadEnvFiles()

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	commonlog.Configure(cfg.Log.Verbosity+a.verbose, cfg.LogPath())
	return nil
}

// loadEnvFiles reads .env then .env.local into the environment. Values
// already set win, and missing files are fine.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		_ = godotenv.Load(name)
	}
}

// readJava reads a .java file, or stdin when path is "-".
func readJava(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	if ext := filepath.Ext(path); ext != ".java" {
		return nil, fmt.Errorf("expected .java file, got %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// writeFile replaces path keeping its permissions when it exists.
func writeFile(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, data, perm)
}
