package main

import (
	"os"

	"github.com/senecapartners/seneca-cms-backend/cmd/senecactl/commands"
)

func main() {
	os.Exit(commands.ExitCode(commands.Execute()))
}
