package handlers

import (
	"strconv"
	"strings"
)

func parseID(value string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func strconvID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
