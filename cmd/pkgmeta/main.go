// Command pkgmeta checks, inspects and reformats Python distribution
// metadata files.
package main

func main() {
	Execute()
}
