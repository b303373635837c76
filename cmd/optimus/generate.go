package main

import (
	"encoding/json"
	"fmt"

	"github.com/paraglidehq/optimus"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// params is the persisted form of an Optimus. Keys match the config keys,
// so generate's yaml and json output can be used as a config file.
type params struct {
	Prime      uint64 `json:"prime"`
	ModInverse uint64 `json:"mod-inverse"`
	Random     uint64 `json:"random"`
}

func (a *app) generateCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random prime, its inverse and a random mask",
		Long: `Generate a random prime, its inverse and a random mask, For example:
  optimus generate > ~/.optimus.yaml
  optimus generate --format env`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := optimus.Generate(nil)
			if err != nil {
				return errors.Wrap(err, "generate")
			}
			a.log.Debug().Uint64("prime", o.Prime()).Msg("generated parameters")

			p := params{Prime: o.Prime(), ModInverse: o.ModInverse(), Random: o.Random()}
			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				fmt.Fprintf(out, "prime: %d\nmod-inverse: %d\nrandom: %d\n", p.Prime, p.ModInverse, p.Random)
			case "env":
				fmt.Fprintf(out, "%[1]s_PRIME=%[2]d\n%[1]s_MOD_INVERSE=%[3]d\n%[1]s_RANDOM=%[4]d\n",
					envPrefix, p.Prime, p.ModInverse, p.Random)
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			default:
				return errors.Errorf("unknown format %q (want yaml, json or env)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml, json or env")
	return cmd
}
