package main

import "github.com/TanasubRat/travel-match-backend/cmd"

func main() {
	cmd.Run()
}
