//go:build cli
// +build cli

package main

import (
	_ "cavina.GO/custom"

	"cavina.GO/cmd"
	"cavina.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
