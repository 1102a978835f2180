package main

import "surebet-scanner/internal/cli"

func main() {
	cli.Execute()
}
