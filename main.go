package main

import (
	"os"

	"github.com/scan-io-git/pomscan/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
