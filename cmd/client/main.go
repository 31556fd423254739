package main

import "notas/cmd/client/cmd"

func main() {
	cmd.Execute()
}
