package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yuanying/epub2txt/internal/converter"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
	envPrefix        = "EPUB2TXT"
)

func registerFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("log-level", defaultLogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-format", defaultLogFormat, "Log format (text, json)")
	flags.BoolP("verbose", "v", false, "Enable debug logging (overrides --log-level)")
	flags.Bool("strict", false, "Fail on skipped spine entries and unreadable content documents")
	flags.Bool("linear-only", false, `Leave out spine items marked linear="no"`)
	flags.String("config", "", "Config file (default $HOME/.epub2txt/config.yaml)")
}

// newConfig layers flags over EPUB2TXT_* environment variables over an
// optional config file.
func newConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.epub2txt")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("invalid --config: %w", err)
		}
	}
	return v, nil
}

func readCLIOptions(cmd *cobra.Command, args []string) (converter.ConvertOptions, error) {
	v, err := newConfig(cmd)
	if err != nil {
		return converter.ConvertOptions{}, err
	}

	inputPath, outputPath := args[0], args[1]
	if inputPath == "" {
		return converter.ConvertOptions{}, &ArgumentError{Msg: "input path must not be empty"}
	}
	if outputPath == "" {
		return converter.ConvertOptions{}, &ArgumentError{Msg: "output path must not be empty"}
	}
	if filepath.Clean(inputPath) == filepath.Clean(outputPath) {
		return converter.ConvertOptions{}, fmt.Errorf("output path %q would overwrite the input", outputPath)
	}

	logLevel := strings.ToLower(v.GetString("log-level"))
	if _, ok := parseLogLevel(logLevel); !ok {
		return converter.ConvertOptions{}, fmt.Errorf("invalid --log-level %q: must be debug, info, warn or error", logLevel)
	}
	if v.GetBool("verbose") {
		logLevel = "debug"
	}

	logFormat := strings.ToLower(v.GetString("log-format"))
	if logFormat != "text" && logFormat != "json" {
		return converter.ConvertOptions{}, fmt.Errorf("invalid --log-format %q: must be text or json", logFormat)
	}

	logger := buildLogger(cmd.ErrOrStderr(), logLevel, logFormat).With("run", uuid.NewString())
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("config file loaded", "path", used)
	}

	return converter.ConvertOptions{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Logger:     logger,
		Strict:     v.GetBool("strict"),
		LinearOnly: v.GetBool("linear-only"),
	}, nil
}

func parseLogLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func buildLogger(w io.Writer, level, format string) *slog.Logger {
	lvl, _ := parseLogLevel(level)
	handlerOpts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}
