package city

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseTerrain returns a seeded terrain with scattered lakes.
// Tiles whose layered noise falls under waterLevel become water.
func NoiseTerrain(seed int64, waterLevel float64) TerrainFunc {
	noise := opensimplex.NewNormalized(seed)
	return func(x, y int) Terrain {
		if octaveNoise(noise, float64(x), float64(y), 3, 0.12, 0.5) < waterLevel {
			return TerrainWater
		}
		return TerrainGrass
	}
}

func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}
