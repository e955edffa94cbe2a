//go:build mage

package main

// Runs the unit tests with the race detector.
func Test() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream())
	return err
}

// Runs the grass package benchmarks.
func Benchmark() error {
	_, err := executeCmd("go", withArgs("test", "-run", "^$", "-bench", ".", "./internal/engine/grass/..."), withStream())
	return err
}
