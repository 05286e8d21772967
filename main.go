package main

import "github.com/Tiliavir/timew-ical/cmd"

func main() {
	cmd.Execute()
}
