package main

import (
	"ytmcp/cmd"
)

func main() {
	cmd.Execute()
}
