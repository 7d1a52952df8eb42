package main

import "schema-sync/cmd"

func main() {
	cmd.Execute()
}
