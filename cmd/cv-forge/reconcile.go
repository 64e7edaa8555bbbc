package main

import (
	"encoding/json"
	"fmt"
	"io"

	"cv-forge/internal/reconcile"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Restore protected fields of a rewritten CV from the original",
	Long: `reconcile reads an original CV and a rewritten candidate, prints the
reconciled CV as JSON on stdout and lists the protected fields the rewrite
tried to change on stderr.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := reconcileOptions{}
		opts.original, _ = cmd.Flags().GetString("original")
		opts.candidate, _ = cmd.Flags().GetString("candidate")
		opts.instruction, _ = cmd.Flags().GetString("instruction")
		opts.strict, _ = cmd.Flags().GetBool("strict")
		opts.matchByID, _ = cmd.Flags().GetBool("match-by-id")
		return runReconcile(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().String("original", "", "original CV JSON file")
	reconcileCmd.Flags().String("candidate", "", "rewritten CV JSON file")
	reconcileCmd.Flags().String("instruction", "", "instruction the rewrite was made with")
	reconcileCmd.Flags().Bool("strict", false, "drop candidate entries that have no original counterpart")
	reconcileCmd.Flags().Bool("match-by-id", false, "pair list entries by id instead of position")
	reconcileCmd.MarkFlagRequired("original")
	reconcileCmd.MarkFlagRequired("candidate")
}

type reconcileOptions struct {
	original, candidate string
	instruction         string
	strict, matchByID   bool
}

func runReconcile(opts reconcileOptions, stdout, stderr io.Writer) error {
	original, err := readCV(opts.original)
	if err != nil {
		return err
	}
	candidate, err := readCV(opts.candidate)
	if err != nil {
		return err
	}

	var ropts []reconcile.Option
	if opts.strict {
		ropts = append(ropts, reconcile.WithExtraPolicy(reconcile.DropExtra))
	}
	if opts.matchByID {
		ropts = append(ropts, reconcile.WithMatchMode(reconcile.MatchByID))
	}
	r := reconcile.New(ropts...)

	for _, f := range r.DetectModifiedFields(original, candidate, opts.instruction) {
		fmt.Fprintf(stderr, "modified %s\n", f)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Reconcile(original, candidate, opts.instruction))
}
