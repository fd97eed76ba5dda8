package main

import (
	"fmt"
	"strings"

	"github.com/Harshitk-cp/doxa/internal/logic"
	"github.com/spf13/cobra"
)

func runCNF(cmd *cobra.Command, args []string) error {
	f, err := logic.Parse(strings.Join(args, " "))
	if err != nil {
		return err
	}

	cnf, err := logic.ToCNF(f)
	if err != nil {
		return err
	}
	if cnfSimplify {
		cnf = cnf.Simplify()
	}

	fmt.Println(cnf)
	return nil
}
