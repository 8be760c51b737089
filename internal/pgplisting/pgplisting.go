package pgplisting

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Object layout in the bucket: public keys under PublicKeys/<name>.pub.txt
// with a matching fingerprint under Fingerprints/<name>.fpr.txt.
const (
	publicKeyPrefix   = "PublicKeys/"
	publicKeySuffix   = ".pub.txt"
	fingerprintPrefix = "Fingerprints/"
	fingerprintSuffix = ".fpr.txt"
)

// Entry is one published contact: their public key and its fingerprint.
type Entry struct {
	Name        string
	PublicKey   []byte
	Fingerprint []byte
}

// ObjectStore is the slice of object storage the listing needs.
type ObjectStore interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
}

// ParseName extracts the contact name from a public key object key.
func ParseName(key string) string {
	return strings.TrimSuffix(strings.TrimPrefix(key, publicKeyPrefix), publicKeySuffix)
}

// FetchEntries builds the full contact listing from the bucket contents.
func FetchEntries(ctx context.Context, store ObjectStore) ([]Entry, error) {
	keys, err := store.ListKeys(ctx, publicKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list public keys: %w", err)
	}

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		name := ParseName(key)
		publicKey, err := store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("fetch public key for %s: %w", name, err)
		}
		fingerprint, err := store.Get(ctx, fingerprintPrefix+name+fingerprintSuffix)
		if err != nil {
			return nil, fmt.Errorf("fetch fingerprint for %s: %w", name, err)
		}
		entries = append(entries, Entry{Name: name, PublicKey: publicKey, Fingerprint: fingerprint})
	}
	return entries, nil
}

// GroupByInitial buckets entries under the upper-cased first letter of the
// contact name for the alphabetic listing page. Names are sorted within
// each group.
func GroupByInitial(entries []Entry) map[string][]Entry {
	groups := make(map[string][]Entry)
	for _, e := range entries {
		initial := "#"
		for _, r := range e.Name {
			if unicode.IsLetter(r) {
				initial = strings.ToUpper(string(r))
			}
			break
		}
		groups[initial] = append(groups[initial], e)
	}
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })
	}
	return groups
}
