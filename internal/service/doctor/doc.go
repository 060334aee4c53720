// Package doctor runs pre-flight checks of the build environment:
// interpreter and package manager availability, entry script and data
// directory presence. Problems are aggregated instead of failing on the
// first one, so a single run reports everything that needs fixing.
package doctor
