package assert

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/maskfall/sim/oerror"
)

// IsTrue panics with the message passed if ok is false.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}

// Finite panics if any component of the vector passed is NaN or infinite. what names the vector in
// the panic message.
func Finite(v mgl64.Vec3, what string) {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			panic(oerror.New("%s is not finite: %v", what, v))
		}
	}
}
