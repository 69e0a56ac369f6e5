// Package cli provides the cobra command tree for rulebot.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rulebot/internal/core/ports/driving"
	"github.com/custodia-labs/rulebot/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// skipServices marks commands that run without building the service graph.
const skipServices = "skip-services"

// Options carries the persistent flag values to the service factory.
type Options struct {
	Verbose   bool
	ConfigDir string
	DataDir   string
}

// Services is the set of driving ports the commands use.
type Services struct {
	Settings  driving.SettingsService
	Retriever driving.Retriever
	Answerer  driving.Answerer
	Ingest    driving.IngestService
	Index     driving.IndexService
	Rules     driving.RuleBook

	// ChunksPath is the chunk collection file watched by 'index --watch'.
	ChunksPath string

	// Close releases resources held by the services. May be nil.
	Close func()
}

// Factory builds the services once the persistent flags are parsed.
type Factory func(opts Options) (*Services, error)

var (
	settingsService  driving.SettingsService
	retrieverService driving.Retriever
	answerService    driving.Answerer
	ingestService    driving.IngestService
	indexService     driving.IndexService
	ruleBook         driving.RuleBook
	chunksPath       string
	closeServices    func()

	factory Factory
	opts    Options
)

var rootCmd = &cobra.Command{
	Use:   "rulebot",
	Short: "Question answering over the VEX Push Back rule manual",
	Long: `rulebot answers questions about the VEX Robotics Push Back game manual.

The manual is ingested once into rule passages, embedded into an index, and
then queried from the command line, an interactive chat, or an MCP client.
Every answer cites the rules and pages it was built from.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupServices,
	PersistentPostRunE: teardownServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "print pipeline trace output")
	rootCmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "", "configuration directory (default ~/.rulebot)")
	rootCmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "data directory (overrides data.dir)")
}

// SetFactory sets the function that builds the services.
func SetFactory(f Factory) {
	factory = f
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(opts.Verbose)

	if cmd.Annotations[skipServices] == "true" || factory == nil {
		return nil
	}

	svc, err := factory(opts)
	if err != nil {
		return fmt.Errorf("initialising services: %w", err)
	}
	applyServices(svc)
	return nil
}

func teardownServices(_ *cobra.Command, _ []string) error {
	if closeServices != nil {
		closeServices()
		closeServices = nil
	}
	return nil
}

func applyServices(svc *Services) {
	if svc == nil {
		return
	}
	settingsService = svc.Settings
	retrieverService = svc.Retriever
	answerService = svc.Answerer
	ingestService = svc.Ingest
	indexService = svc.Index
	ruleBook = svc.Rules
	chunksPath = svc.ChunksPath
	closeServices = svc.Close
}

func notConfigured(name string) error {
	return errors.New(name + " service not configured")
}
