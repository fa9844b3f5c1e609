package camp

import (
	"math/rand"
	"strconv"
	"time"
)

const (
	customIDPrefix = "custom"
	idSuffixLen    = 9
	base36         = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var (
	NowFunc    = time.Now // mockable
	randIntnFn = rand.Intn
)

// GenerateID returns `<prefix>-<unix millis>-<9 random base-36 chars>`.
// Uniqueness is probabilistic only.
func GenerateID(prefix string) string {
	if prefix == "" {
		prefix = customIDPrefix
	}
	suffix := make([]byte, idSuffixLen)
	for i := range suffix {
		suffix[i] = base36[randIntnFn(len(base36))]
	}
	return prefix + "-" + strconv.FormatInt(NowFunc().UnixMilli(), 10) + "-" + string(suffix)
}
