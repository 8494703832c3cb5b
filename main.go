package main

import (
	"github.com/spectacles-go/validate/cmd"
)

func main() {
	cmd.Execute()
}
