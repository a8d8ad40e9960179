package main

import "airstay-backend/cmd/airstay/cmd"

func main() {
	cmd.Execute()
}
