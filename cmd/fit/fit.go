package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/scotuslab/leanings/pkg/features"
	"github.com/scotuslab/leanings/pkg/logging"
	"github.com/scotuslab/leanings/pkg/logit"
	"github.com/scotuslab/leanings/pkg/scdb"
	"github.com/scotuslab/leanings/pkg/split"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	FlagSeed          = "seed"
	FlagTrainFraction = "train-fraction"
	FlagLogLevel      = "log-level"
	FlagLogFormat     = "log-format"
)

func init() {
	cmd.Flags().Int64(FlagSeed, 0, "random seed")
	cmd.Flags().Float64(FlagTrainFraction, 0.7, "fraction of rows assigned to the training set")
	cmd.Flags().String(FlagLogLevel, string(logging.LevelInfo), "log level")
	cmd.Flags().String(FlagLogFormat, string(logging.FormatConsole), "log output format")
}

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cmd = cobra.Command{
	Use:     "fit FEATURES",
	Short:   "fits and evaluates the ideology classifier on a prepared feature matrix",
	Args:    cobra.ExactArgs(1),
	Version: "0.1.0",
	RunE:    runE,
}

func runE(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	logLevel, err := cmd.Flags().GetString(FlagLogLevel)
	if err != nil {
		return fmt.Errorf("getting log level: %w", err)
	}
	logFormat, err := cmd.Flags().GetString(FlagLogFormat)
	if err != nil {
		return fmt.Errorf("getting log format: %w", err)
	}
	logger, err := logging.New(logging.Level(logLevel), logging.Format(logFormat))
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	fraction, err := cmd.Flags().GetFloat64(FlagTrainFraction)
	if err != nil {
		return fmt.Errorf("getting train fraction: %w", err)
	}
	seed, err := getSeed(cmd)
	if err != nil {
		return fmt.Errorf("getting seed: %w", err)
	}

	matrix, err := features.ReadParquet(ctx, args[0])
	if err != nil {
		return fmt.Errorf("loading feature matrix: %w", err)
	}

	run := uuid.NewString()
	logger.Info("loaded feature matrix",
		zap.String("run_id", run),
		zap.Int("rows", len(matrix.Keys)),
		zap.Int("areas", len(matrix.Areas)),
		zap.Int64("seed", seed),
		zap.Float64("train_fraction", fraction))

	train, test := split.TrainTest(len(matrix.Keys), fraction, seed)
	balanced := split.Downsample(train, matrix.Labels, seed)
	logger.Info("partitioned rows",
		zap.Int("train", len(train)),
		zap.Int("balanced_train", len(balanced)),
		zap.Int("test", len(test)))

	reducedAreas := features.ReducedAreas()
	fullAreas := features.FullAreas()

	reducedX, trainY, err := matrix.Design(reducedAreas, balanced)
	if err != nil {
		return fmt.Errorf("building reduced design matrix: %w", err)
	}
	fullX, _, err := matrix.Design(fullAreas, balanced)
	if err != nil {
		return fmt.Errorf("building full design matrix: %w", err)
	}

	reducedModel, err := logit.Fit(reducedX, trainY)
	if err != nil {
		return fmt.Errorf("fitting reduced model: %w", err)
	}
	fullModel, err := logit.Fit(fullX, trainY)
	if err != nil {
		return fmt.Errorf("fitting full model: %w", err)
	}
	logger.Info("fitted candidate models",
		zap.Bool("reduced_converged", reducedModel.Converged),
		zap.Bool("full_converged", fullModel.Converged))

	ratio, err := logit.CompareNested(reducedModel, fullModel)
	if err != nil {
		return fmt.Errorf("comparing candidate models: %w", err)
	}

	testX, testY, err := matrix.Design(fullAreas, test)
	if err != nil {
		return fmt.Errorf("building test design matrix: %w", err)
	}
	probabilities, err := fullModel.Predict(testX)
	if err != nil {
		return fmt.Errorf("scoring held-out rows: %w", err)
	}
	confusion := logit.Evaluate(probabilities, testY)

	printReport(run, reducedAreas, reducedModel, fullAreas, fullModel, ratio, confusion)
	return nil
}

func printReport(run string,
	reducedAreas []scdb.IssueArea, reducedModel *logit.Model,
	fullAreas []scdb.IssueArea, fullModel *logit.Model,
	ratio logit.LikelihoodRatio, confusion logit.Confusion,
) {
	fmt.Printf("run %s\n\n", run)

	printCoefficients("reduced model", reducedAreas, reducedModel)
	printCoefficients("full model", fullAreas, fullModel)

	fmt.Println("likelihood ratio (reduced vs full)")
	fmt.Printf("  statistic  %.4f\n", ratio.Statistic)
	fmt.Printf("  df         %d\n", ratio.DegreesOfFreedom)
	fmt.Printf("  p-value    %.6f\n\n", ratio.PValue)

	fmt.Println("held-out evaluation (full model)")
	fmt.Printf("  rows       %d\n", confusion.Total())
	fmt.Printf("  accuracy   %.4f\n", confusion.Accuracy())
	fmt.Printf("  confusion  tp=%d tn=%d fp=%d fn=%d\n",
		confusion.TruePositive, confusion.TrueNegative,
		confusion.FalsePositive, confusion.FalseNegative)
}

func printCoefficients(name string, areas []scdb.IssueArea, model *logit.Model) {
	fmt.Printf("%s (deviance %.4f, %d iterations)\n", name, model.Deviance(), model.Iterations)
	fmt.Printf("  %-20s % .4f\n", "(intercept)", model.Intercept)
	for i, area := range areas {
		fmt.Printf("  %-20s % .4f\n", area.Slug(), model.Coefficients[i])
	}
	fmt.Println()
}

func getSeed(cmd *cobra.Command) (int64, error) {
	// Check if the user set the seed manually.
	seedSet := false
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name == FlagSeed {
			seedSet = true
		}
	})

	if seedSet {
		// User-provided seed.
		seed, err := cmd.Flags().GetInt64(FlagSeed)
		if err != nil {
			return 0, err
		}
		return seed, nil
	} else {
		// Use time as seed.
		return time.Now().UnixNano(), nil
	}
}
