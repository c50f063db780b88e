package main

import "github.com/hdkrs/hdkbuild/cmd/hdkbuild/internal"

func main() {
	internal.Execute()
}
