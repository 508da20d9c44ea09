/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/texturedata/cmd/texrec/cmd"

func main() {
	cmd.Execute()
}
