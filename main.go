package main

import "github.com/f1muse/f1-etl-go/cmd"

func main() {
	cmd.Execute()
}
