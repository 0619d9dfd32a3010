// Package models provides the data structures shared by the insights engine,
// its stores and its outer surfaces.
package models
