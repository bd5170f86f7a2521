// main is the entry point of the heatwatch CLI.
package main

import (
	"fmt"
	"os"
	_ "time/tzdata" // timezone data for minimal containers

	"github.com/huangsam/heatwatch/cmd"
	"github.com/huangsam/heatwatch/internal/iocache"
)

func main() {
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
