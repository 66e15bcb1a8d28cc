// Command errorsignal serves, imports and exports the blog.
package main

func main() {
	execute()
}
