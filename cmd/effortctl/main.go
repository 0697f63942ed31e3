package main

import "github.com/ucdavis/VIPER-sub005/internal/cli"

func main() {
	cli.Execute()
}
