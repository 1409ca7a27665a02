package controlplane

import (
	"encoding/base64"
	"strconv"

	"github.com/kittynxr/maowbot/internal/apperr"
)

const defaultPageSize = 50

// decodeCursor turns an opaque page token back into the offset it encodes.
// An empty token is offset 0 — the first page.
func decodeCursor(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, apperr.New(apperr.KindInvalidInput, "malformed page_token")
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0, apperr.New(apperr.KindInvalidInput, "malformed page_token")
	}
	return offset, nil
}

// encodeCursor produces the opaque token for the given offset.
func encodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// pageWindow returns the next-page token to return, given the offset of this
// page, how many items it actually returned and the total available.
// nextToken is "" once there is nothing left to fetch.
func pageWindow(offset, pageSize, returned, total int) (nextToken string) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	next := offset + returned
	if next >= total {
		return ""
	}
	return encodeCursor(next)
}

func effectivePageSize(requested int) int {
	if requested <= 0 {
		return defaultPageSize
	}
	return requested
}
