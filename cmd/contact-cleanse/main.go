package main

import "github.com/David-Botos/contact-cleanse/internal/cmd"

func main() {
	cmd.Execute()
}
