// Command stepform runs multi-step forms in a terminal, over HTTP or as MCP tools.
package main

func main() {
	Execute()
}
