package utils

import (
	"strconv"
)

// StringToUint converts a route parameter to a uint, returning 0 on error.
func StringToUint(s string) uint {
	i, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint(i)
}

func UintToString(i uint) string {
	return strconv.FormatUint(uint64(i), 10)
}
