//go:build verify_reflections
// +build verify_reflections

package mirrors

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	lengthEpsilon = 1e-7
	angleEpsilon  = 1e-7
)

func init() {
	fmt.Println("Reflection verification enabled.")
}

func verifyReflectionLaw(incident, normal, reflected r2.Vec) {
	// Angle of incidence should equal angle of reflection
	incidentAngle := math.Acos(math.Abs(r2.Cos(incident, normal)))
	reflectedAngle := math.Acos(math.Abs(r2.Cos(reflected, normal)))
	if math.Abs(incidentAngle-reflectedAngle) > angleEpsilon {
		panic(fmt.Sprintf("angle of incidence %v does not match angle of reflection %v", incidentAngle, reflectedAngle))
	}

	// Reflection should not change the direction's magnitude
	if math.Abs(r2.Norm(incident)-r2.Norm(reflected)) > lengthEpsilon*r2.Norm(incident) {
		panic(fmt.Sprintf("reflection changed magnitude from %v to %v", r2.Norm(incident), r2.Norm(reflected)))
	}
}
