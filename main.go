package main

import "github.com/chamahub/chama-management/cmd"

func main() {
	cmd.Execute()
}
