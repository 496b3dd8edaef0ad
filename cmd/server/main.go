package main

import "github.com/dossiman/coursera-fullstack-web-dev/cmd/server/commands"

func main() {
	commands.Execute()
}
