package main

import (
	"os"

	"github.com/Harshitk-cp/doxa/internal/service"
	"github.com/Harshitk-cp/doxa/internal/shell"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runRepl(cmd *cobra.Command, _ []string) error {
	svc := service.NewRevisionService(zap.NewNop())
	sh := shell.New(svc, shell.NewInputReader(shell.Prompt), os.Stdout)
	return sh.Run(cmd.Context())
}
