package main

import (
	"encoding/json"
	"github.com/myrjola/studyassistant/internal/ai"
	"github.com/myrjola/studyassistant/internal/envstruct"
	"github.com/myrjola/studyassistant/internal/errors"
	"github.com/myrjola/studyassistant/internal/logging"
	"github.com/myrjola/studyassistant/internal/models"
	"github.com/myrjola/studyassistant/internal/study"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"io"
	"log/slog"
	"time"
)

var studyGroup = &cobra.Group{
	ID:    "study",
	Title: "Study materials",
}

var ErrUnknownFormat = errors.NewSentinel("unknown output format, use yaml or json")

type cliConfig struct {
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL" envDefault:""`
	Model             string        `env:"STUDYASSISTANT_MODEL" envDefault:""`
	GenerationTimeout time.Duration `env:"STUDYASSISTANT_GENERATION_TIMEOUT" envDefault:"60s"`
}

// studyDocument is the printed result. The study materials fields are inlined next to the request.
type studyDocument struct {
	Subject               string `json:"subject" yaml:"subject"`
	Topic                 string `json:"topic"   yaml:"topic"`
	models.StudyMaterials `yaml:",inline"`
}

func newGenerateCmd(lookupEnv func(string) (string, bool)) *cobra.Command {
	var (
		subject string
		topic   string
		format  string
		verbose bool
	)
	cmd := &cobra.Command{ //nolint:exhaustruct // this is better for readability
		Use:     "generate",
		GroupID: studyGroup.ID,
		Short:   "Generate study materials",
		Long: `Generates study materials for a topic within a subject and prints them to stdout.

The OpenAI API key is read from OPENAI_API_KEY, also via a .env file in the working directory.`,
		Example: `  studyassistant-cli generate --subject Biology --topic Mitosis --format json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "yaml" && format != "json" {
				return errors.Wrap(ErrUnknownFormat, "check flags", slog.String("format", format))
			}

			var cfg cliConfig
			if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
				return errors.Wrap(err, "populate config")
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := logging.NewLogger(cmd.ErrOrStderr(), level, false)
			ctx := cmd.Context()

			aiClient := ai.NewClient(ai.Config{
				APIKey:  cfg.OpenAIAPIKey,
				BaseURL: cfg.OpenAIBaseURL,
				Model:   cfg.Model,
			}, logger)
			controller := study.NewController(aiClient, logger, study.WithTimeout(cfg.GenerationTimeout))

			seq, err := controller.Submit(ctx, subject, topic)
			if err != nil {
				return err
			}
			snap, err := controller.Wait(ctx, seq)
			if err != nil {
				controller.Reset()
				return err
			}
			if !snap.IsSuccess() {
				return errors.New(snap.Message)
			}

			return writeStudyDocument(cmd.OutOrStdout(), format, studyDocument{
				Subject:        snap.Subject,
				Topic:          snap.Topic,
				StudyMaterials: *snap.Materials,
			})
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "subject, e.g. Biology")
	cmd.Flags().StringVar(&topic, "topic", "", "topic within the subject, e.g. Mitosis")
	cmd.Flags().StringVar(&format, "format", "yaml", "output format, yaml or json")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func writeStudyDocument(w io.Writer, format string, doc studyDocument) error {
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(doc); err != nil {
			return errors.Wrap(err, "encode json")
		}
		return nil
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2) //nolint:mnd // two spaces
	if err := encoder.Encode(doc); err != nil {
		return errors.Wrap(err, "encode yaml")
	}
	if err := encoder.Close(); err != nil {
		return errors.Wrap(err, "flush yaml")
	}
	return nil
}
