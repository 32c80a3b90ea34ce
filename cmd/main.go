package main

import (
	cmd "github.com/kerbaras/storysite/cmd/storysite"
)

func main() {
	cmd.Execute()
}
