package fixed_test

import (
	"fmt"

	"github.com/cwbudde/algo-fxpipe/dsp/fixed"
)

func ExampleMul() {
	half := fixed.Coeff(0.5)
	quarter := fixed.Mul(half, half)

	fmt.Printf("%.4f\n", fixed.ToFloat(quarter))
	// Output: 0.2500
}

func ExampleFromCell() {
	cell := fixed.ToCell(16384)

	fmt.Println(fixed.FromCell(cell))
	// Output: 16384
}
