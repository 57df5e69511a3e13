package main

import "github.com/Yates-Labs/gaia/cmd"

func main() {
	cmd.Execute()
}
