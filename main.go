/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/nakachan-ing/pick3-cli/cmd"

func main() {
	cmd.Execute()
}
