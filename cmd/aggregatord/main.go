package main

import (
	"fmt"
	"os"

	"github.com/GPTx-global/guru-aggregator/cmd/aggregatord/cmd"
)

func main() {
	if err := cmd.Execute(cmd.NewRootCmd()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
