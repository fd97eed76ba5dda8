package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Harshitk-cp/doxa/internal/demo"
	"github.com/Harshitk-cp/doxa/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runDemo(cmd *cobra.Command, args []string) error {
	runner := demo.NewRunner(service.NewRevisionService(zap.NewNop()), os.Stdout)

	if len(args) == 0 {
		return runner.RunAll(cmd.Context())
	}

	scenarios, err := demo.Scenarios()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(scenarios))
	for _, sc := range scenarios {
		if strings.EqualFold(sc.Name, args[0]) {
			return runner.Run(cmd.Context(), sc)
		}
		names = append(names, sc.Name)
	}
	return fmt.Errorf("unknown scenario %q, available: %s", args[0], strings.Join(names, ", "))
}
