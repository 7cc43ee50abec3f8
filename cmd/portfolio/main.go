// Command portfolio serves the portfolio site and its interactive demos.
package main

func main() {
	Execute()
}
