package main

import "github.com/selfhostedhub/compare/internal/cmd"

func main() {
	cmd.Execute()
}
