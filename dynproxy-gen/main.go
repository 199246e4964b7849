// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pk910/dynamic-proxy/codegen"
)

var (
	packagePath string
	typeNames   string
	outputFile  string
	configFile  string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "dynproxy-gen",
	Short: "Generate dispatch units for dynamic-proxy parent types",
	Long: `Generate Go source dispatch units for interface and struct types.

Generated units register themselves with dynproxy.RegisterTemplate, so proxies
of the listed types implement the parent's methods directly.

Examples:
  dynproxy-gen generate --package ./service --types Store,Client --output service_proxy.go
  dynproxy-gen generate --config dynproxy.yaml`,
	SilenceUsage: true,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate proxy code for the given types",
	RunE:  runGenerate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the generator version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), codegen.Version)
	},
}

func init() {
	generateCmd.Flags().StringVar(&packagePath, "package", "", "Go package path to analyze")
	generateCmd.Flags().StringVar(&typeNames, "types", "", "Comma-separated list of type names to generate code for")
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path for generated code")
	generateCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file (replaces --package, --types and --output)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(generateCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	cfg := loggerConfig()
	return cfg.Build()
}

func loggerConfig() zap.Config {
	if verbose {
		return zap.NewDevelopmentConfig()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// parseTypeList splits a comma separated type list, dropping blanks.
func parseTypeList(list string) []string {
	names := []string{}
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// loadConfig builds the generator config from the config file or flags.
func loadConfig() (*codegen.Config, error) {
	if configFile != "" {
		return codegen.LoadConfig(configFile)
	}

	cfg := &codegen.Config{
		Package: packagePath,
		Output:  outputFile,
	}
	for _, name := range parseTypeList(typeNames) {
		cfg.Types = append(cfg.Types, codegen.TypeConfig{Name: name})
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithHint(err, "use --package, --types and --output or --config")
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Debug("analyzing package",
		zap.String("package", cfg.Package),
		zap.Strings("types", cfg.TypeNames()),
		zap.String("output", cfg.Output),
	)

	pkg, err := codegen.LoadPackage(cfg.Package)
	if err != nil {
		return err
	}

	found, err := codegen.LookupTypes(pkg, cfg.TypeNames())
	if err != nil {
		return err
	}

	opts := []codegen.CodeGenOption{codegen.WithLogger(logger)}
	if verbose {
		opts = append(opts, codegen.WithVerbose())
	}
	codeGen := codegen.NewCodeGenerator(opts...)

	typeOptions := make([]codegen.TypeOption, len(found))
	for i, goType := range found {
		typeOptions[i] = codegen.WithGoTypesType(goType, cfg.Types[i].TypeOptions()...)
	}

	if err := codeGen.BuildFile(cfg.Output, typeOptions...); err != nil {
		return err
	}
	if err := codeGen.Generate(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated proxy code for %d types in %s\n", len(found), cfg.Output)
	return nil
}
