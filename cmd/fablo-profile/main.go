package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ddr4869/fabprofile/common/logger"
	"github.com/ddr4869/fabprofile/config"
	"github.com/ddr4869/fabprofile/profile"
)

type options struct {
	configPath string
	logLevel   string
	orgName    string
	outDir     string
	formats    []string
	showFormat string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "fablo-profile",
		Short: "Generate Fabric connection profiles from a network topology",
		Long: `fablo-profile reads a Fablo network topology and writes one connection
profile per organization for SDK clients of the local network.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.SetLevel(logger.LogLevel(opts.logLevel))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "fablo-config.yaml", "Network topology file (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Write connection profiles to disk",
		Long:  `Builds the connection profile of every organization, or only --org, and writes it in each requested format.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}
	generateCmd.Flags().StringVar(&opts.orgName, "org", "", "Only generate the profile of this organization")
	generateCmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Output directory (default <root>/fablo-target/fabric-config/connection-profiles)")
	generateCmd.Flags().StringSliceVarP(&opts.formats, "format", "f", []string{"json", "yaml"}, "Output formats")

	showCmd := &cobra.Command{
		Use:   "show [org-name]",
		Short: "Print the connection profile of an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, opts, args[0])
		},
	}
	showCmd.Flags().StringVarP(&opts.showFormat, "format", "f", "json", "Output format (json or yaml)")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the network topology file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := loadNetwork(opts.configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "network %s is valid (%d orgs)\n", network.Name, len(network.Orgs))
			return nil
		},
	}

	rootCmd.AddCommand(generateCmd, showCmd, validateCmd)
	return rootCmd
}

func loadNetwork(path string) (*config.Network, error) {
	network, err := config.LoadNetwork(path)
	if err != nil {
		return nil, err
	}
	if err := network.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid topology %s", path)
	}
	return network, nil
}

func parseFormats(values []string) ([]profile.Format, error) {
	formats := make([]profile.Format, 0, len(values))
	for _, v := range values {
		f, err := profile.ParseFormat(v)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

func runGenerate(cmd *cobra.Command, opts *options) error {
	network, err := loadNetwork(opts.configPath)
	if err != nil {
		return err
	}
	formats, err := parseFormats(opts.formats)
	if err != nil {
		return err
	}

	var written []string
	if opts.orgName == "" {
		written, err = profile.GenerateAll(network, opts.outDir, formats...)
	} else {
		var org config.OrgConfig
		org, err = network.FindOrg(opts.orgName)
		if err != nil {
			return err
		}
		outDir := opts.outDir
		if outDir == "" {
			outDir = profile.OutputDir(network.Settings.Paths.ChaincodesBaseDir)
		}
		p := profile.BuildProfile(network.Name, network.Settings, org, network.Orgs)
		written, err = profile.Write(outDir, p, formats...)
	}
	if err != nil {
		return err
	}

	for _, path := range written {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

func runShow(cmd *cobra.Command, opts *options, orgName string) error {
	network, err := loadNetwork(opts.configPath)
	if err != nil {
		return err
	}
	format, err := profile.ParseFormat(opts.showFormat)
	if err != nil {
		return err
	}
	org, err := network.FindOrg(orgName)
	if err != nil {
		return err
	}

	data, err := profile.Encode(profile.BuildProfile(network.Name, network.Settings, org, network.Orgs), format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func init() {
	if err := logger.InitializeDevelopment(); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
}

func main() {
	defer logger.Sync()
	if err := newRootCmd().Execute(); err != nil {
		logger.Errorf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
