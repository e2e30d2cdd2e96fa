package main

import (
	"github.com/pjkea/social-media-scraper-api/cmd"
)

func main() {
	cmd.Execute()
}
