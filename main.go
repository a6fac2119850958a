package main

import "github.com/princinho/dealsbackend/cmd"

func main() {
	cmd.Execute()
}
