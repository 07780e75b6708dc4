package main

// Mines every frequent itemset of a transaction database by star decomposition.

// Sample usage in terminal.
// go run run_star_mine.go --config_filepath=config.json --num_routines=4
// go run run_star_mine.go config 4

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"strconv"
	"time"

	"starmine/config"
	"starmine/filestore"
	"starmine/metrics"
	"starmine/mine"
	"starmine/output"
	serviceDisk "starmine/services/disk"
	serviceGCS "starmine/services/gcstorage"
	serviceS3 "starmine/services/s3"
	"starmine/star"
	"starmine/transactions"
	"starmine/util"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const appName = "star_mine"

var configFilePath = flag.String("config_filepath", "", "Run configuration, JSON or the two line plain layout.")
var numRoutinesFlag = flag.Int("num_routines", 0, "Number of workers. Overrides the config when set.")
var envFlag = flag.String("env", "", "Overrides the env of the config.")

func main() {
	flag.Parse()

	path := *configFilePath
	numRoutines := *numRoutinesFlag
	args := flag.Args()
	if path == "" && len(args) > 0 {
		path = args[0]
	}
	if numRoutines == 0 && len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.WithError(err).Fatal("Invalid number of threads.")
		}
		numRoutines = n
	}
	if path == "" {
		log.Fatal("Usage: run_star_mine --config_filepath=<config> [--num_routines=<n>] or run_star_mine <config> <threads>")
	}

	conf, err := config.Load(path)
	if err != nil {
		log.WithError(err).Fatal("Failed to load config.")
	}
	if numRoutines != 0 {
		conf.NumRoutines = numRoutines
	}
	if *envFlag != "" {
		conf.Env = *envFlag
	}
	conf.InitLogging()
	if err := conf.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid config.")
	}

	if conf.SentryDSN != "" {
		hook, err := util.NewSentryHook(conf.SentryDSN, conf.Env)
		if err != nil {
			log.WithError(err).Error("Failed to initialize sentry.")
		} else {
			log.AddHook(hook)
		}
	}

	runID := util.GetRunID()
	exporter := metrics.InitMetrics(conf.Env, appName, conf.Metrics.ProjectID, conf.Metrics.Location, runID)

	fm, err := newFileManager(conf)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize file store.")
	}

	err = run(context.Background(), conf, fm, runID)
	if exporter != nil {
		exporter.Flush()
		exporter.StopMetricsExporter()
	}
	if err != nil {
		log.WithError(err).WithField("run_id", runID).Fatal("Star mining failed.")
	}
}

func newFileManager(conf *config.Configuration) (filestore.FileManager, error) {
	switch conf.Store.Type {
	case config.StoreGCS:
		gcsDriver, err := serviceGCS.New(conf.Store.Bucket)
		if err != nil {
			return nil, err
		}
		return gcsDriver, nil
	case config.StoreS3:
		return serviceS3.New(conf.Store.Bucket, conf.Store.Region), nil
	case config.StoreDisk:
		return serviceDisk.New(conf.Store.BaseDir), nil
	}
	return nil, errors.Errorf("unknown store type %q", conf.Store.Type)
}

// readInput returns the encoded rows and, for named items, the names of
// the encoded ids. Sizes of json inputs are taken from the data.
func readInput(conf *config.Configuration) ([][]int, []string, error) {
	if conf.InputFormat == transactions.FormatJSON {
		trns, decoder, err := transactions.ReadJSONFile(conf.InputFile)
		if err != nil {
			return nil, nil, err
		}
		conf.NumRows = len(trns)
		conf.NumColumns = len(decoder)
		return trns, decoder, nil
	}
	trns, err := transactions.ReadSimplexFile(conf.InputFile, conf.NumRows)
	return trns, nil, err
}

func run(ctx context.Context, conf *config.Configuration, fm filestore.FileManager, runID string) error {
	logCtx := log.WithFields(log.Fields{"run_id": runID, "input_file": conf.InputFile})

	start := time.Now()
	trns, names, err := readInput(conf)
	if err != nil {
		return err
	}
	table, err := star.New(conf.NumRows, conf.NumColumns, trns)
	if err != nil {
		return errors.Wrap(err, "failed to build incidence table")
	}
	elapsed := metrics.RecordSince(metrics.LatencyInitialization, start)
	logCtx.WithFields(log.Fields{
		"rows":      conf.NumRows,
		"columns":   conf.NumColumns,
		"threshold": conf.Threshold(),
		"seconds":   elapsed.Seconds(),
	}).Info("Initialization done.")

	res, err := mine.Run(ctx, conf.Params(), table)
	if err != nil {
		return err
	}

	start = time.Now()
	if err := upload(conf, fm, runID, names, res); err != nil {
		return err
	}
	elapsed = metrics.RecordSince(metrics.LatencyUploadResults, start)
	logCtx.WithFields(log.Fields{
		"itemsets": res.Len(),
		"seconds":  elapsed.Seconds(),
	}).Info("Results stored.")
	return nil
}

func upload(conf *config.Configuration, fm filestore.FileManager, runID string, names []string, res *mine.Result) error {
	var buf bytes.Buffer
	if _, err := output.WriteResult(&buf, conf.OutputFormat, names, res); err != nil {
		return errors.Wrap(err, "failed to write results")
	}
	dir, name := fm.GetResultFilePathAndName(runID, conf.OutputFile)
	if err := fm.Create(dir, name, &buf); err != nil {
		return errors.Wrapf(err, "failed to store results in %s%s", dir, name)
	}

	stats, err := json.Marshal(res.Stats)
	if err != nil {
		return err
	}
	dir, name = fm.GetStatsFilePathAndName(runID, conf.OutputFile)
	if err := fm.Create(dir, name, bytes.NewReader(stats)); err != nil {
		return errors.Wrapf(err, "failed to store worker stats in %s%s", dir, name)
	}
	return nil
}
