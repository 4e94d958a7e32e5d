// Command sahayi is a terminal client for the Kerala government services
// assistant.
package main

import "github.com/diogo/sahayi/internal/commands"

func main() {
	commands.Execute()
}
