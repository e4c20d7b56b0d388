package main

import "github.com/redactyl/privaudit/cmd/privaudit"

func main() { privaudit.Execute() }
