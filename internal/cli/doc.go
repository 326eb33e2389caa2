// Package cli implements the commands of the guidebot binary on top of the library packages.
package cli
