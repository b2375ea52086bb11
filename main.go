// Package main is the entry point for the wgslfuzz-reduce CLI.
package main

import "github.com/mc-imperial/wgsl-fuzz-sub001/cmd"

func main() {
	cmd.Execute()
}
