package main

import "github.com/skygazr/eclipsetrack/cmd"

func main() {
	cmd.Execute()
}
