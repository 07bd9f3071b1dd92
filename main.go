package main

import "github.com/hoppxi/nightsvg/internal/cmd"

func main() {
	cmd.Execute()
}
