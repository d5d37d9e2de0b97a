package util

import (
	"github.com/ohsu-comp-bio/wrkldmngr/config"
	"github.com/spf13/pflag"
)

// ConfigFlags returns a new flag set for configuring job submission.
func ConfigFlags(flagConf *config.Config, configFile *string) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVarP(configFile, "config", "c", *configFile, "Config File")

	f.AddFlagSet(selectorFlags(flagConf))
	f.AddFlagSet(schemaFlags(flagConf))
	f.AddFlagSet(loggerFlags(flagConf))

	return f
}

func selectorFlags(flagConf *config.Config) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVarP(&flagConf.Backend, "Backend", "b", flagConf.Backend, "Name of the workload manager to submit to")
	f.StringVar(&flagConf.Shell, "Shell", flagConf.Shell, "Shell named in the job script header")
	f.IntVar(&flagConf.Workers, "Workers", flagConf.Workers, "Max concurrent submissions when several jobs are given")
	f.Float64Var(&flagConf.SubmitRate, "SubmitRate", flagConf.SubmitRate, "Max submissions per second when several jobs are given")
	f.StringVar(&flagConf.OutputLimit, "OutputLimit", flagConf.OutputLimit, "Launcher output kept for error reports, e.g. 64KiB")
	f.Var(&flagConf.SubmitTimeout, "SubmitTimeout", "Max time to wait for all submissions, e.g. 2m")
	f.StringVarP(&flagConf.Output, "Output", "o", flagConf.Output, "Path of the job script to write")
	f.StringVar(&flagConf.MetricsFile, "MetricsFile", flagConf.MetricsFile, "Write run metrics in Prometheus text format to this file")

	return f
}

func schemaFlags(flagConf *config.Config) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVar(&flagConf.Root, "Root", flagConf.Root, "Directory containing schema/ and templates/ (default $WRKLDMNGR_ROOT)")
	f.StringVar(&flagConf.Tool, "Tool", flagConf.Tool, "Name of the schema document under Root/schema")

	return f
}

func loggerFlags(flagConf *config.Config) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVar(&flagConf.Logger.Level, "Logger.Level", flagConf.Logger.Level, "Level of logging")
	f.StringVar(&flagConf.Logger.OutputFile, "Logger.OutputFile", flagConf.Logger.OutputFile, "File path to write logs to")
	f.StringVar(&flagConf.Logger.Formatter, "Logger.Formatter", flagConf.Logger.Formatter, "Logs formatter. One of ['text', 'json']")

	return f
}
