package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/statement-sorter/cmd/analyze"
	"fjacquet/statement-sorter/cmd/organize"
	"fjacquet/statement-sorter/cmd/progress"
	"fjacquet/statement-sorter/cmd/rename"
	"fjacquet/statement-sorter/cmd/root"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	loadEnvSilently()

	// 2. Set the global logrus level before anything logs; the configured
	// logger replaces it once the config is read
	configureLogLevelDirectly()

	// 3. Initialize root command and add all subcommands
	root.Init()
	root.Cmd.AddCommand(organize.Cmd)
	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(rename.Cmd)
	root.Cmd.AddCommand(progress.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// configureLogLevelDirectly sets the global log level for all logrus instances
func configureLogLevelDirectly() {
	logLevelStr := os.Getenv("SORTER_LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
