package store

import (
	"crypto/rand"
	"math/big"
)

var friendlyAdjectives = []string{
	"amber", "bold", "brave", "bright", "calm", "clever", "crisp",
	"curious", "eager", "fuzzy", "gentle", "golden", "happy", "keen",
	"lively", "lucky", "mellow", "nimble", "quiet", "rapid", "silver",
	"sly", "swift", "tidy", "vivid", "warm", "wise", "witty",
}

var friendlyNouns = []string{
	"badger", "beacon", "comet", "falcon", "fern", "glacier", "harbor",
	"heron", "lantern", "lynx", "maple", "meadow", "otter", "owl",
	"pebble", "pine", "raven", "reef", "river", "sparrow", "summit",
	"thicket", "tundra", "walrus", "willow", "wren",
}

// FriendlyName produces a memorable adjective-noun label for runs and
// sessions that were started without an explicit name.
func FriendlyName() string {
	return pick(friendlyAdjectives) + "-" + pick(friendlyNouns)
}

func pick(words []string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		return words[0]
	}
	return words[n.Int64()]
}
