package main

import "sso-concerts/cmd/sso-calendar/commands"

func main() {
	commands.Execute()
}
