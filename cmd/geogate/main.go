package main

import "github.com/go-arrower/geogate/cmd"

func main() {
	cmd.Execute()
}
