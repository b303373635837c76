package main

import (
	"fmt"
	"strconv"

	"github.com/paraglidehq/optimus"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (a *app) inverseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inverse <prime>...",
		Short: "Print the inverse of each prime modulo 2^31",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range args {
				p, err := strconv.ParseUint(s, 10, 64)
				if err != nil {
					return errors.Wrapf(err, "parse prime %q", s)
				}
				inv, ok := optimus.ModInverse(p)
				if !ok {
					return errors.Wrapf(optimus.ErrNoModularInverse, "prime %d", p)
				}
				fmt.Fprintln(cmd.OutOrStdout(), inv)
			}
			return nil
		},
	}
}

// parseFormat validates a --output or --input value.
func parseFormat(s string) (optimus.Format, error) {
	f := optimus.Format(s)
	if !f.Valid() {
		return "", errors.Wrapf(optimus.ErrUnknownFormat, "format %q", s)
	}
	return f, nil
}

func (a *app) encodeCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "encode <id>...",
		Short: "Obfuscate IDs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(output)
			if err != nil {
				return err
			}
			o, err := a.optimus()
			if err != nil {
				return err
			}
			optimus.DefaultOptimus = o

			for _, s := range args {
				n, err := strconv.ParseInt(s, 10, 64)
				if err != nil {
					return errors.Wrapf(err, "parse id %q", s)
				}
				id, err := optimus.FromInt64(n)
				if err != nil {
					return errors.Wrapf(err, "id %q", s)
				}
				fmt.Fprintln(cmd.OutOrStdout(), id.Format(f))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(optimus.FormatDecimal), "output format: decimal, hex, base58 or crockford")
	return cmd
}

func (a *app) decodeCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "decode <value>...",
		Short: "Reverse obfuscated IDs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(input)
			if err != nil {
				return err
			}
			o, err := a.optimus()
			if err != nil {
				return err
			}
			optimus.DefaultOptimus = o

			for _, s := range args {
				id, err := optimus.ParseFormat(s, f)
				if err != nil {
					return errors.Wrapf(err, "decode %q", s)
				}
				fmt.Fprintln(cmd.OutOrStdout(), id.Uint64())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", string(optimus.FormatDecimal), "input format: decimal, hex, base58 or crockford")
	return cmd
}
