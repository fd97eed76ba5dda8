package main

import (
	"fmt"

	"github.com/Harshitk-cp/doxa/internal/buildconfig"
	"github.com/spf13/cobra"
)

var (
	cnfSimplify bool

	rootCmd = &cobra.Command{
		Use:   "doxa",
		Short: "A belief revision engine with a REPL, HTTP API, and demos",
		Long: `doxa keeps a base of propositional beliefs ordered by entrenchment
and changes it rationally: expansion adds, contraction retracts the
cheapest beliefs until a formula is no longer entailed, and revision
makes room for new information before accepting it. Entailment is
decided by refutation resolution.

Running doxa with no arguments starts the interactive shell.`,
		SilenceUsage: true,
		RunE:         runRepl,
	}

	replCmd = &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive belief revision shell",
		RunE:  runRepl,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}

	demoCmd = &cobra.Command{
		Use:   "demo [scenario]",
		Short: "Replay the built-in belief change walkthroughs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDemo,
	}

	cnfCmd = &cobra.Command{
		Use:   "cnf <formula>",
		Short: "Print the conjunctive normal form of a formula",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCNF,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Printf("doxa %s (commit %s, built %s)\n",
				buildconfig.Version(), buildconfig.Commit(), buildconfig.Date())
		},
	}
)

func init() {
	cnfCmd.Flags().BoolVar(&cnfSimplify, "simplify", false, "Drop tautological clauses from the output")

	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(cnfCmd)
	rootCmd.AddCommand(versionCmd)
}
