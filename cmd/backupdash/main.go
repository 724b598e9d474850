package main

import (
	"os"

	"github.com/edvin/backupdash/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
