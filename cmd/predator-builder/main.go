package main

import "github.com/predator-app/predator-builder/cmd/predator-builder/cmd"

func main() {
	cmd.Execute()
}
