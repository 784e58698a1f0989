// Package pipeline runs the two phases of a download.
//
// The resolve phase reads image ids, asks the Pixabay API for each image's
// download url and stores the results in the url cache file. It only runs
// when the cache file is missing or a refresh is requested, and it requires
// an API key.
//
// The download phase always runs. It reads the url cache and saves every
// resolved image as {id}.jpg in the download directory. Images whose url is
// "None" are skipped without a request.
//
// Failures of individual images are logged and counted in the Summary; they
// never fail the run. Missing or malformed input files do.
package pipeline
