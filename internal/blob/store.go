// Package blob stores uploaded files and hands back the public URL they are
// served from.
package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path"
	"regexp"
	"strings"
)

var (
	ErrUnknownURL  = errors.New("blob: url does not belong to this store")
	ErrInvalidName = errors.New("blob: invalid object name")
)

// Object names are either "file" or "owner/file". Each segment is a plain
// name; there is never more than one prefix.
var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

type Store interface {
	// Put writes data under name and returns its public URL.
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
	// Delete removes the object behind url. Deleting a missing object is not
	// an error.
	Delete(ctx context.Context, url string) error
	// Owner reports the owner prefix of the object behind url, or "" for an
	// object stored without one.
	Owner(url string) (string, error)
}

// OwnerPrefix is the object prefix for ownerID. IDs that are not plain path
// segments are replaced by a digest.
func OwnerPrefix(ownerID string) string {
	if validSegment(ownerID) {
		return ownerID
	}
	sum := sha256.Sum256([]byte(ownerID))
	return "u-" + hex.EncodeToString(sum[:16])
}

// OwnedName places file under the owner's prefix.
func OwnedName(ownerID, file string) (string, error) {
	if ownerID == "" || !validSegment(file) {
		return "", ErrInvalidName
	}
	return OwnerPrefix(ownerID) + "/" + file, nil
}

// OwnedBy reports whether url names an object stored under ownerID's prefix.
func OwnedBy(s Store, url, ownerID string) bool {
	if ownerID == "" {
		return false
	}
	owner, err := s.Owner(url)
	return err == nil && owner == OwnerPrefix(ownerID)
}

func validSegment(s string) bool {
	return s != ".." && segmentPattern.MatchString(s)
}

// objectName rejects names that would escape the store's namespace.
func objectName(name string) (string, error) {
	parts := strings.Split(name, "/")
	if len(parts) > 2 {
		return "", ErrInvalidName
	}
	for _, p := range parts {
		if !validSegment(p) {
			return "", ErrInvalidName
		}
	}
	return path.Join(parts...), nil
}

// ownerOf returns the prefix segment of a validated object name.
func ownerOf(name string) string {
	if owner, _, ok := strings.Cut(name, "/"); ok {
		return owner
	}
	return ""
}

// nameFromURL strips base from url and validates what is left.
func nameFromURL(base, url string) (string, error) {
	prefix := strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", ErrUnknownURL
	}
	name, err := objectName(strings.TrimPrefix(url, prefix))
	if err != nil {
		return "", ErrUnknownURL
	}
	return name, nil
}
