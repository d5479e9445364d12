// Package pipeline sequences config generation: questionnaire, pattern
// discovery, research, advisor critique, generation, validation, consensus
// review with improvement cycles, and the final write.
package pipeline
