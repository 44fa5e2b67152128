package main

import "github.com/fivec-maps/catalog-import/internal/cli"

func main() {
	cli.Execute()
}
