package main

import "cloudgraphx/cmd"

func main() {
	cmd.Execute()
}
