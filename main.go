/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/votesecure/platform/cmd"

func main() {
	cmd.Execute()
}
