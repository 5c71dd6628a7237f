package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vaultguard/internal/vault/generator"
)

func newGenerateCmd() *cobra.Command {
	var (
		preset     string
		length     int
		passphrase bool
		words      int
		separator  string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random password or passphrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				result *generator.Result
				err    error
			)
			if passphrase {
				opts := generator.DefaultPassphraseOptions()
				if words > 0 {
					opts.Words = words
				}
				if separator != "" {
					opts.Separator = separator
				}
				result, err = generator.Passphrase(opts)
			} else {
				opts := generator.DefaultOptions()
				if preset != "" {
					var ok bool
					if opts, ok = generator.PresetOptions(preset); !ok {
						return fmt.Errorf("unknown preset %q, expected one of %s",
							preset, strings.Join(generator.PresetNames(), ", "))
					}
				}
				if length > 0 {
					opts.Length = length
				}
				result, err = generator.Generate(opts)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Password)
			if !quiet {
				printStrength(out, result.Strength)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&preset, "preset", "", "password preset: "+strings.Join(generator.PresetNames(), ", "))
	cmd.Flags().IntVar(&length, "length", 0, "password length, overrides the preset")
	cmd.Flags().BoolVar(&passphrase, "passphrase", false, "generate a word-based passphrase")
	cmd.Flags().IntVar(&words, "words", 0, "passphrase word count")
	cmd.Flags().StringVar(&separator, "separator", "", "passphrase word separator")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the password")
	cmd.MarkFlagsMutuallyExclusive("passphrase", "preset")
	return cmd
}

func newStrengthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strength [password]",
		Short: "Score a password, reading stdin when no argument is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := argOrStdin(cmd, args)
			if err != nil {
				return err
			}
			if password == "" {
				return errors.New("password is required")
			}
			printStrength(cmd.OutOrStdout(), generator.EvaluateStrength(password))
			return nil
		},
	}
}

func printStrength(out io.Writer, s generator.Strength) {
	paint := color.New(color.FgRed)
	switch {
	case s.Score >= 4:
		paint = color.New(color.FgGreen)
	case s.Score == 3:
		paint = color.New(color.FgYellow)
	}

	fmt.Fprintf(out, "strength: %s  entropy: %.1f bits  length: %d\n",
		paint.Sprintf("%d/5", s.Score), s.Entropy, s.Length)
	for _, line := range s.Feedback {
		fmt.Fprintf(out, "  %s %s\n", color.CyanString("→"), line)
	}
}
