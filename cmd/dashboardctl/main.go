package main

import (
	"os"

	"wpconn-dashboard/cmd/dashboardctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
