package main

import "github.com/usario/creators-services/cmd"

func main() {
	cmd.Execute()
}
