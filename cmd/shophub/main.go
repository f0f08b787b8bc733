package main

import (
	"os"

	"github.com/sandeepkv93/shophub-client/internal/tools/shophub"
)

func main() {
	os.Exit(shophub.Execute())
}
