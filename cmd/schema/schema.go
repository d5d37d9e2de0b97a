// Package schema contains the schema command, which inspects the workload
// manager schema.
package schema

import (
	"fmt"
	"io"

	"github.com/ghodss/yaml"
	"github.com/ohsu-comp-bio/wrkldmngr/cmd/util"
	"github.com/ohsu-comp-bio/wrkldmngr/config"
	"github.com/ohsu-comp-bio/wrkldmngr/schema"
	"github.com/spf13/cobra"
)

// NewCommand returns the schema command.
func NewCommand() *cobra.Command {
	var (
		configFile string
		flagConf   config.Config
		conf       config.Config
		store      *schema.Store
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect the workload manager schema.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			conf, err = util.MergeConfigFileWithFlags(configFile, flagConf)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}
			store, err = schema.LoadFromRoot(conf.Root, conf.Tool)
			return err
		},
	}

	cmd.SetGlobalNormalizationFunc(util.NormalizeFlags)
	f := cmd.PersistentFlags()
	f.StringVarP(&configFile, "config", "c", configFile, "Config File")
	f.StringVar(&flagConf.Root, "Root", flagConf.Root, "Directory containing schema/ and templates/ (default $WRKLDMNGR_ROOT)")
	f.StringVar(&flagConf.Tool, "Tool", flagConf.Tool, "Name of the schema document under Root/schema")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the supported workload managers.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range store.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show NAME",
		Short: "Print the launcher, template and defaults of a workload manager.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := store.Lookup(args[0])
			if err != nil {
				return err
			}
			return writeSpec(cmd.OutOrStdout(), spec)
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func writeSpec(w io.Writer, spec schema.Spec) error {
	doc := map[string]interface{}{
		"name":     spec.Name,
		"launcher": spec.Launcher,
		"template": spec.Template,
		"defaults": spec.Defaults.Map(),
	}
	b, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
