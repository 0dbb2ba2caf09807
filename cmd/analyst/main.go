package main

import "github.com/csv-analyst/backend/internal/cli"

func main() {
	cli.Execute()
}
