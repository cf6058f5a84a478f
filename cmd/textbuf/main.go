package main

import "github.com/gesquive/textbuf/cmd/textbuf/cmd"

func main() {
	cmd.Execute()
}
