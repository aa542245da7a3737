package main

import "github.com/Makepad-fr/shoplist/internal/cli"

func main() {
	cli.Execute()
}
