package main

import "biblib/cmd"

func main() {
	cmd.Execute()
}
