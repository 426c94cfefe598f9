package experiment

import (
	"math/rand"
	"time"
)

var (
	adjectives = []string{
		"bright", "silver", "polished", "curved", "glancing", "oblique", "mirrored",
		"steady", "quiet", "endless", "brief", "narrow", "wide", "sharp", "soft",
		"pale", "amber", "crimson", "violet", "golden", "hollow", "bent", "level",
		"restless", "patient", "wandering", "still", "lucky", "nameless", "crystal",
	}

	nouns = []string{
		"beam", "ray", "glint", "flare", "prism", "lens", "mirror", "halo",
		"spark", "shadow", "photon", "lantern", "beacon", "caustic", "orbit",
		"echo", "facet", "gleam", "shimmer", "arc", "chord", "tangent", "spiral",
		"corridor", "labyrinth", "window", "horizon", "dawn", "dusk", "comet",
	}
)

// GenerateExperimentName creates a memorable experiment identifier
// in the format "adjective-noun"
func GenerateExperimentName() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	adj := adjectives[rng.Intn(len(adjectives))]
	noun := nouns[rng.Intn(len(nouns))]

	return adj + "-" + noun
}

// GenerateExperimentID creates a unique experiment identifier by combining
// the memorable name with a timestamp
func GenerateExperimentID() string {
	timestamp := time.Now().UTC().Format("20060102-150405.000")
	return GenerateExperimentName() + "-" + timestamp
}
