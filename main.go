package main

import "github.com/fares303/Ai-instagram-message/cmd"

func main() {
	cmd.Execute()
}
