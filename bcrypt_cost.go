//go:build !race

package portal

func passwordHashCost() int {
	return 14
}
