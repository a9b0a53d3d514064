// Package utils provides common utility functions for the relation-manager application.
// It includes helper functions for type conversion used when normalizing relation keys
// and parsing loosely typed request input.
package utils
