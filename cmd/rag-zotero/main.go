// cmd/rag-zotero/main.go
package main

import (
	"github.com/ragzotero/rag-zotero/internal/cli"
)

// main starts the rag-zotero CLI by delegating to the cobra root
// command defined in the cli package.
func main() {
	cli.Execute()
}
