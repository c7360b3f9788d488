package main

import (
	"os"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/cmd"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
