// Package toolchain wraps the external interpreter and package manager.
//
// All process execution goes through the Runner interface; the production
// implementation shells out via os/exec while FakeRunner records commands
// for tests. Every command is bounded by the configured timeout and a
// non-zero exit status surfaces immediately with the command's output.
package toolchain
