package main

import "sso-concerts/cmd/sso-clean/commands"

func main() {
	commands.Execute()
}
