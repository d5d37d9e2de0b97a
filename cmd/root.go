// Package cmd contains the wrkldmngr CLI commands.
package cmd

import (
	"github.com/ohsu-comp-bio/wrkldmngr/cmd/schema"
	"github.com/ohsu-comp-bio/wrkldmngr/cmd/submit"
	"github.com/ohsu-comp-bio/wrkldmngr/cmd/version"
	"github.com/spf13/cobra"
)

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:           "wrkldmngr",
	Short:         "Render job scripts from a schema and submit them to a workload manager.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	RootCmd.AddCommand(completionCmd)
	RootCmd.AddCommand(schema.NewCommand())
	RootCmd.AddCommand(submit.NewCommand())
	RootCmd.AddCommand(submit.NewRenderCommand())
	RootCmd.AddCommand(version.Cmd)
}
