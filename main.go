package main

import "github.com/team-mayes/gaussian-wrangler/cmd"

func main() {
	cmd.Execute()
}
