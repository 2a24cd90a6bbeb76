package main

import "github.com/okian/tracklist/internal/smoke"

func main() {
	smoke.Execute()
}
