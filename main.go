package main

import "github.com/ValentinKolb/critsec/cmd"

func main() {
	cmd.Execute()
}
