/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cache

import (
	"fmt"
	"strings"
)

// Strategy selects the eviction policy of a descriptor Cache.
//
// # Values
//
//   - LRU: least recently used entries are evicted first.
//   - TwoQueue ("2Q"): recently added and frequently used entries are tracked
//     separately so a scan of one-off lookups does not flush hot entries.
//   - ARC: adaptive replacement, balancing recency and frequency.
//   - None: caching disabled; every lookup scans the type again.
//
// Strategy values are plain integers, safe to copy and share across
// goroutines. The textual forms are stable and used in configuration.
type Strategy int

const (
	// LRU selects least recently used eviction.
	LRU Strategy = iota
	// TwoQueue selects the 2Q algorithm.
	TwoQueue
	// ARC selects adaptive replacement.
	ARC
	// None disables caching.
	None
)

// String returns the canonical token of s, or "Unknown(<n>)" for values
// outside the enumeration.
func (s Strategy) String() string {
	switch s {
	case LRU:
		return "LRU"
	case TwoQueue:
		return "2Q"
	case ARC:
		return "ARC"
	case None:
		return "None"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// Parse converts a token into a Strategy. Matching is case-insensitive and
// ignores surrounding whitespace; "TwoQueue" is accepted for 2Q. On failure
// it returns None and an error.
//
//	s, err := cache.Parse("lru")
//	if err != nil {
//	    // handle invalid configuration
//	}
func Parse(s string) (Strategy, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return None, fmt.Errorf("cache: empty strategy")
	}

	switch strings.ToUpper(trimmed) {
	case "LRU":
		return LRU, nil
	case "2Q", "TWOQUEUE":
		return TwoQueue, nil
	case "ARC":
		return ARC, nil
	case "NONE":
		return None, nil
	default:
		return None, fmt.Errorf("cache: unknown strategy %q", s)
	}
}

// MustParse is like Parse but panics on invalid input. Use it for
// hard-coded values only.
func MustParse(s string) Strategy {
	strategy, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return strategy
}

// MarshalText implements encoding.TextMarshaler. Unknown values are an
// error rather than an "Unknown(...)" token.
func (s Strategy) MarshalText() ([]byte, error) {
	switch s {
	case LRU, TwoQueue, ARC, None:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("cache: cannot marshal unknown strategy %d", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler with the tokens of
// Parse. On failure the receiver is left unchanged.
func (s *Strategy) UnmarshalText(text []byte) error {
	value, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = value
	return nil
}
