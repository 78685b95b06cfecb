package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/scotuslab/leanings/pkg/features"
	"github.com/scotuslab/leanings/pkg/logging"
	"github.com/scotuslab/leanings/pkg/logit"
	"github.com/scotuslab/leanings/pkg/server"
	"github.com/scotuslab/leanings/pkg/split"
	"github.com/scotuslab/leanings/pkg/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	FlagConfig        = "config"
	FlagPort          = "port"
	FlagFeatures      = "features"
	FlagDatabase      = "database"
	FlagSeed          = "seed"
	FlagTrainFraction = "train-fraction"
	FlagLogLevel      = "log-level"
	FlagLogFormat     = "log-format"
)

func init() {
	cmd.Flags().String(FlagConfig, "", "config file path")
	cmd.Flags().Int(FlagPort, 8080, "listen port")
	cmd.Flags().String(FlagFeatures, "features.parquet", "prepared feature matrix")
	cmd.Flags().String(FlagDatabase, "leanings.db", "prediction log database")
	cmd.Flags().Int64(FlagSeed, 100, "random seed for the training split")
	cmd.Flags().Float64(FlagTrainFraction, 0.7, "fraction of rows used for training")
	cmd.Flags().String(FlagLogLevel, string(logging.LevelInfo), "log level")
	cmd.Flags().String(FlagLogFormat, string(logging.FormatStructured), "log output format")
}

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cmd = cobra.Command{
	Use:     "serve",
	Short:   "serves the interactive leaning predictor over a freshly fitted model",
	Args:    cobra.NoArgs,
	Version: "0.1.0",
	RunE:    runE,
}

func runE(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	configuration := viper.New()
	if err := configuration.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	configuration.SetEnvPrefix("LEANINGS")
	configuration.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	configuration.AutomaticEnv()

	configPath := configuration.GetString(FlagConfig)
	if configPath != "" {
		configuration.SetConfigFile(configPath)
		if err := configuration.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	} else {
		configuration.SetConfigName("leanings")
		configuration.AddConfigPath(".")
		var notFound viper.ConfigFileNotFoundError
		if err := configuration.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	logger, err := logging.New(
		logging.Level(configuration.GetString(FlagLogLevel)),
		logging.Format(configuration.GetString(FlagLogFormat)))
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	matrix, err := features.ReadParquet(ctx, configuration.GetString(FlagFeatures))
	if err != nil {
		return fmt.Errorf("loading feature matrix: %w", err)
	}

	seed := configuration.GetInt64(FlagSeed)
	fraction := configuration.GetFloat64(FlagTrainFraction)
	train, _ := split.TrainTest(len(matrix.Keys), fraction, seed)
	balanced := split.Downsample(train, matrix.Labels, seed)

	areas := features.FullAreas()
	trainX, trainY, err := matrix.Design(areas, balanced)
	if err != nil {
		return fmt.Errorf("building design matrix: %w", err)
	}

	// The model is fitted once at startup and never mutated; each request
	// scores against this same fit.
	model, err := logit.Fit(trainX, trainY)
	if err != nil {
		return fmt.Errorf("fitting model: %w", err)
	}

	run := uuid.NewString()
	logger.Info("fitted model",
		zap.String("run_id", run),
		zap.Int("training_rows", len(balanced)),
		zap.Int64("seed", seed),
		zap.Bool("converged", model.Converged))

	predictionLog, err := store.Open(configuration.GetString(FlagDatabase))
	if err != nil {
		return fmt.Errorf("opening prediction log: %w", err)
	}
	defer func() {
		if err := predictionLog.Close(); err != nil {
			logger.Error("closing prediction log", zap.Error(err))
		}
	}()

	predictor, err := server.New(model, areas, run, predictionLog, logger)
	if err != nil {
		return fmt.Errorf("creating predictor server: %w", err)
	}

	address := fmt.Sprintf(":%d", configuration.GetInt(FlagPort))
	httpServer := &http.Server{
		Addr:              address,
		Handler:           predictor,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("listening", zap.String("address", address))
	return httpServer.ListenAndServe()
}
