// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

// idSuffixLen is the number of random base-36 characters appended to the
// timestamp portion of a generated ID.
const idSuffixLen = 5

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID generates a unique string identifier: the current time in
// milliseconds encoded base-36 plus a random suffix. IDs are unique within
// a collection, stable for the entity's lifetime, and never reused.
func NewID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	suffix := make([]byte, idSuffixLen)
	max := big.NewInt(int64(len(base36)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is
			// broken; fall back to a clock-derived character.
			suffix[i] = base36[time.Now().UnixNano()%int64(len(base36))]
			continue
		}
		suffix[i] = base36[n.Int64()]
	}

	return ts + string(suffix)
}

// DateStamp returns the short calendar stamp ("2 Jan") recorded on a
// conversation at creation time.
func DateStamp(t time.Time) string {
	return t.Format("2 Jan")
}
