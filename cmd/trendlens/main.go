package main

import (
	"trendlens/cmd/cmd"
)

func main() {
	cmd.Execute()
}
