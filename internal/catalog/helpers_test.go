package catalog

import "strconv"

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
