package main

import "github.com/LegacyCodeHQ/unfurl/cmd"

func main() {
	cmd.Execute()
}
