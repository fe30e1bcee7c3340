// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command smlogic simulates logic circuits built from gates, timers and
// inputs.
package main

func main() {
	Execute()
}
