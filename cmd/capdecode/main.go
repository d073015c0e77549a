// Package main provides the capdecode command, which decodes a Morello
// capability and prints its fields and bounds.
package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/capdecode/capability"
	"github.com/sarchlab/capdecode/config"
	"github.com/sarchlab/capdecode/report"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capdecode [flags] CAPABILITY",
		Short: "Decode a Morello capability.",
		Long: `Decode a 129-bit Morello capability (tag included) and print its fields,
bounds and representable range. The capability may be given in decimal or
with a 0x, 0o or 0b prefix.

Supported versions:
  ` + strings.Join(capability.SpecVersionNames(), "\n  "),
		Args: func(cmd *cobra.Command, args []string) error {
			if GetFlag(cmd, "list-versions") {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	cmd.Flags().String("spec-version", capability.DefaultSpecVersion.String(), "capability encoding version")
	cmd.Flags().StringP("format", "f", string(report.FormatText), "output format (text, json or yaml)")
	cmd.Flags().StringP("config", "c", "", "path to a YAML or JSON config file")
	cmd.Flags().Bool("trace", false, "log intermediate bounds-correction values")
	cmd.Flags().BoolP("verbose", "v", false, "increase logging verbosity")
	cmd.Flags().Bool("list-versions", false, "list the supported versions and exit")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	log.SetOutput(cmd.ErrOrStderr())
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}

	if GetFlag(cmd, "list-versions") {
		for _, name := range capability.SpecVersionNames() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	c, err := capability.ParseCapability(args[0])
	if err != nil {
		return err
	}

	var opts []capability.Option
	if cfg.Trace {
		log.SetLevel(log.DebugLevel)
		opts = append(opts, capability.WithTracer(log.WithField("version", cfg.SpecVersion)))
	}

	v, err := cfg.Version()
	if err != nil {
		return err
	}
	d, err := capability.Decode(c, v, opts...)
	if err != nil {
		return err
	}

	return report.Write(cmd.OutOrStdout(), d, report.Format(cfg.Format))
}

// resolveConfig layers explicit flags over the config file over the
// defaults.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := GetString(cmd, "config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("spec-version") {
		cfg.SpecVersion = GetString(cmd, "spec-version")
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = GetString(cmd, "format")
	}
	if cmd.Flags().Changed("trace") {
		cfg.Trace = GetFlag(cmd, "trace")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetFlag gets an expected boolean flag, or panics if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		panic(err)
	}
	return r
}

// GetString gets an expected string flag, or panics if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		panic(err)
	}
	return r
}
