package main

import "github.com/kinimod0/gOASper/cmd/goasper/cmd"

func main() {
	cmd.Execute()
}
