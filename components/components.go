// Package components defines ECS components for the marble simulation.
package components

// Texture names of the built-in skins.
const (
	TextureMarble     = "marble"
	TextureIndividual = "individual"
	TextureGoal       = "goal"
	TextureObstacle   = "obstacle"
)
