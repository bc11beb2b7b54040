/*
Copyright 2025.

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

// Package names generates deterministic names for the Kubernetes objects
// owned by a Kdc.
//
// Owned objects are 1:1 with their Kdc, so the common case is a readable
// "<prefix>-<name>" concatenation. Only when that would violate Kubernetes
// naming rules (too long, bad characters) do we fall back to a truncated
// name carrying a hash of the original parts, so two different inputs never
// collapse onto the same object.
package names

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

const (
	// hashBytes is the number of bytes included in the result of Hash().
	// This must never be changed since it would orphan existing objects.
	hashBytes = 4

	// hashLength is the number of characters in the hex-encoded string returned from Hash().
	hashLength = 2 * hashBytes

	// truncationMark separates a truncated name from its hash.
	truncationMark = "---"

	// minTruncatedLength is one leading character, the truncationMark and the hash.
	minTruncatedLength = 1 + len(truncationMark) + hashLength
)

// Constraints specifies rules that generated names must follow.
type Constraints struct {
	// MaxLength is the maximum length of the output, including any hash
	// suffix. It must be at least 12; smaller values panic.
	MaxLength int
	// ValidFirstChar returns whether the given rune may start the output.
	ValidFirstChar func(r rune) bool
}

var (
	// DefaultConstraints are the name constraints for objects in Kubernetes
	// that don't have any special rules, such as Secrets.
	DefaultConstraints = Constraints{
		MaxLength:      253,
		ValidFirstChar: isLowercaseAlphanumeric,
	}
	// ServiceConstraints are name constraints for Service objects. The KDC
	// Deployment shares its Service's name, so it uses them too.
	ServiceConstraints = Constraints{
		MaxLength:      63,
		ValidFirstChar: isLowercaseLetter,
	}
)

// Hash computes a hash suffix for the given name parts.
func Hash(parts []string) string {
	h := md5.New()
	for _, part := range parts {
		h.Write([]byte(part))
		// The separator must differ from '-' so "a-b","c" and "a","b-c" differ.
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:hashBytes])
}

// Join concatenates the non-empty parts with '-' and returns the result
// unchanged when it already satisfies cons. Otherwise it returns
// JoinWithConstraints(cons, parts...).
//
//	Join(ServiceConstraints, "", "kdc-1")    // "kdc-1"
//	Join(ServiceConstraints, "krb", "kdc-1") // "krb-kdc-1"
//	Join(ServiceConstraints, "", "KDC_1")    // "kdc-1-<hash>"
func Join(cons Constraints, parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	if len(nonEmpty) == 0 {
		return ""
	}

	joined := strings.Join(nonEmpty, "-")
	if valid(cons, joined) {
		return joined
	}
	return JoinWithConstraints(cons, nonEmpty...)
}

// JoinWithConstraints builds a name by concatenating parts with '-',
// lower-casing and replacing invalid characters, and appending a hash of the
// original parts. If the result would exceed cons.MaxLength, the joined part
// is truncated and the hash is preceded by "---".
//
// The output is deterministic for a given list of parts, which makes it
// safe to use as the identity of an object across reconciles.
func JoinWithConstraints(cons Constraints, parts ...string) string {
	if cons.MaxLength < minTruncatedLength {
		panic(
			fmt.Sprintf(
				"MaxLength of %v is invalid; must be at least %v",
				cons.MaxLength,
				minTruncatedLength,
			),
		)
	}

	if len(parts) == 0 {
		return ""
	}

	hash := Hash(parts)

	newParts := make([]string, 0, len(parts))
	for _, part := range parts {
		newParts = append(newParts, strings.Map(sanitize, part))
	}

	// newParts is ASCII from here on.
	firstPart := newParts[0]
	if len(firstPart) == 0 || !cons.ValidFirstChar(rune(firstPart[0])) {
		newParts[0] = "x" + firstPart
	}

	partialResult := strings.Join(newParts, "-")
	predictedLength := len(partialResult) + 1 + len(hash)
	if predictedLength <= cons.MaxLength {
		return partialResult + "-" + hash
	}

	cutLength := predictedLength - cons.MaxLength + 2
	partialResult = partialResult[:len(partialResult)-cutLength]
	return partialResult + truncationMark + hash
}

func valid(cons Constraints, name string) bool {
	if len(name) == 0 || len(name) > cons.MaxLength {
		return false
	}
	if !cons.ValidFirstChar(rune(name[0])) || name[len(name)-1] == '-' {
		return false
	}
	for _, r := range name {
		if !isLowercaseAlphanumeric(r) && r != '-' {
			return false
		}
	}
	return true
}

func sanitize(r rune) rune {
	if isLowercaseAlphanumeric(r) || r == '-' {
		return r
	}
	if isUppercaseLetter(r) {
		return unicode.ToLower(r)
	}
	return '-'
}

func isLowercaseLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isUppercaseLetter(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLowercaseAlphanumeric(r rune) bool {
	return isLowercaseLetter(r) || isDigit(r)
}
