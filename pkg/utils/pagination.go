package utils

import (
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

func ParsePaginationParams(values url.Values) (limit uint64, offset uint64) {
	limit = DefaultLimit

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.ParseUint(limitStr, 10, 64); err == nil && l > 0 {
			if l > MaxLimit {
				limit = MaxLimit
			} else {
				limit = l
			}
		}
	}

	if offsetStr := values.Get("offset"); offsetStr != "" {
		if o, err := strconv.ParseUint(offsetStr, 10, 64); err == nil {
			offset = o
		}
	}

	return
}
