// Package workerpool manages the set of worker identities — logged-in
// user-API sessions used to create and administer operator groups — and
// their sticky egress proxies (spec.md §4.2).
package workerpool

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Identity is one worker account: credentials, a persistent session blob,
// and the sticky proxy it always dials through.
type Identity struct {
	Name        string // e.g. a phone-number-like handle; also OperatorGroupBinding.CreatedBy
	APIID       int
	APIHash     string
	SessionPath string
}

// identityCreds mirrors the on-disk <name>.json layout, spec.md §6.
type identityCreds struct {
	AppID   int    `json:"app_id"`
	AppHash string `json:"app_hash"`
}

// LoadIdentities enumerates every "<name>.session" + "<name>.json" pair
// under sessionsDir/cohort, per spec.md §6's on-disk layout.
func LoadIdentities(sessionsDir, cohort string) ([]Identity, error) {
	dir := filepath.Join(sessionsDir, cohort)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read sessions dir %s", dir)
	}

	var identities []Identity
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".session" {
			continue
		}
		name := entry.Name()[:len(entry.Name())-len(".session")]
		credsPath := filepath.Join(dir, name+".json")

		raw, err := os.ReadFile(credsPath)
		if err != nil {
			return nil, errors.Wrapf(err, "read credentials for %s", name)
		}
		var creds identityCreds
		if err := json.Unmarshal(raw, &creds); err != nil {
			return nil, errors.Wrapf(err, "parse credentials for %s", name)
		}

		identities = append(identities, Identity{
			Name:        name,
			APIID:       creds.AppID,
			APIHash:     creds.AppHash,
			SessionPath: filepath.Join(dir, entry.Name()),
		})
	}
	return identities, nil
}
