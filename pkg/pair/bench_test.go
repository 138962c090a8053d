package pair

import (
	"math/big"
	"testing"

	"github.com/nulln0ne/dex-engine/pkg/fixedpoint"
)

func BenchmarkGetAmountOutInto_NoAlloc(b *testing.B) {
	rIn := new(big.Int).SetUint64(13_451_234_567_890)
	rOut := new(big.Int).SetUint64(98_765_432_109_876)
	in := new(big.Int).SetUint64(1_000_000)
	feeMul := big.NewInt(99_700)
	feeDen := big.NewInt(100_000)
	dst := new(big.Int)
	t1 := new(big.Int)
	t2 := new(big.Int)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GetAmountOutInto(dst, t1, t2, in, rIn, rOut, feeMul, feeDen)
	}
}

func BenchmarkGetAmountOut(b *testing.B) {
	rIn := fixedpoint.NewUint(13_451_234_567_890)
	rOut := fixedpoint.NewUint(98_765_432_109_876)
	in := fixedpoint.NewUint(1_000_000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = GetAmountOut(in, rIn, rOut, DefaultFee)
	}
}
