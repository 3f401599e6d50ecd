package gsc

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"

	"searchconsole-go/pkg/analytics"
)

// cacheKeyPrefix namespaces analytics entries so ClearCache can target
// them without touching unrelated keys in a shared backend.
const cacheKeyPrefix = "gsc:analytics:"

// cacheKey builds a deterministic key from every request field except
// KeywordType. Keyword-type filtering is applied after the cache read,
// so one fetched entry serves the all/branded/non-branded views alike.
func cacheKey(req analytics.Request) string {
	dims := make([]string, len(req.Dimensions))
	for i, d := range req.Dimensions {
		dims[i] = string(d)
	}

	return fmt.Sprintf("%s%s:%s:%s:%s:%s:%d:%d:%s",
		cacheKeyPrefix,
		req.SiteURL,
		req.StartDate,
		req.EndDate,
		strings.Join(dims, ","),
		req.SearchType,
		req.RowLimit,
		req.StartRow,
		filterGroupsHash(req.DimensionFilterGroups),
	)
}

// filterGroupsHash digests the serialized filter groups. The groups are
// opaque pass-through structures; hashing their serialization is the
// only interpretation the core ever performs on them.
func filterGroupsHash(groups []json.RawMessage) string {
	if len(groups) == 0 {
		return "nofilter"
	}
	raw, err := json.Marshal(groups)
	if err != nil {
		return "nofilter"
	}
	return fmt.Sprintf("%x", md5.Sum(raw))
}
