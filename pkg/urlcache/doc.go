// Package urlcache persists resolved image urls between runs.
//
// The cache is a plain text file with one "id,url" line per image. Images
// whose url could not be resolved are written with the literal url "None".
// Writes go through a temporary file that is renamed into place, so an
// interrupted run never leaves a truncated cache behind.
package urlcache
